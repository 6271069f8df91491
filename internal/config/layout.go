package config

import (
	"path"
	"path/filepath"
)

// Layout resolves asset and page locations inside the project checkout.
type Layout struct {
	Root            string
	Namespace       string
	ImagesDir       string
	PagesDir        string
	SourceFile      string
	PublicURLPrefix string
	AssetSuffix     string
}

// Layout derives the project layout from the configuration.
func (c *Config) Layout() Layout {
	return Layout{
		Root:            c.Project.Root,
		Namespace:       c.Project.Namespace,
		ImagesDir:       c.Project.ImagesDir,
		PagesDir:        c.Project.PagesDir,
		SourceFile:      c.Project.SourceFile,
		PublicURLPrefix: c.Project.PublicURLPrefix,
		AssetSuffix:     c.Project.AssetSuffix,
	}
}

// AssetName returns the file name of a page's hero asset, e.g. faq-hero.jpg.
func (l Layout) AssetName(pageID string) string {
	return pageID + l.AssetSuffix
}

// AssetDir returns the directory holding every asset of the namespace.
func (l Layout) AssetDir() string {
	return filepath.Join(l.Root, filepath.FromSlash(l.ImagesDir), l.Namespace)
}

// AssetPath returns the on-disk location of a page's hero asset.
func (l Layout) AssetPath(pageID string) string {
	return filepath.Join(l.AssetDir(), l.AssetName(pageID))
}

// AssetURL returns the public URL the page markup uses for the asset.
func (l Layout) AssetURL(pageID string) string {
	return path.Join(l.PublicURLPrefix, l.Namespace, l.AssetName(pageID))
}

// PagePath returns the source file of a page.
func (l Layout) PagePath(pageID string) string {
	return filepath.Join(l.Root, filepath.FromSlash(l.PagesDir), l.Namespace, pageID, l.SourceFile)
}
