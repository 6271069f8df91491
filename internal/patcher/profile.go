package patcher

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"dario.cat/mergo"

	"heropatch/internal/batch"
	"heropatch/internal/config"
	"heropatch/internal/document"
	"heropatch/internal/textutil"
)

const (
	// ProfileHero places the image after the page's LearnHero block.
	ProfileHero = "hero"
	// ProfileFallback places the image after a per-page anchor for pages
	// without a LearnHero block.
	ProfileFallback = "fallback"

	// ImageImport is the dependency line every patched page needs.
	ImageImport = `import Image from "next/image";`
)

const imageTemplate = `
        <div className="[[.WrapperClass]]">
          <Image
            src="[[.Src]]"
            alt="[[.Alt]]"
            width={[[.Width]]}
            height={[[.Height]]}
            className="h-[300px] w-full object-cover"
            loading="lazy"
          />
        </div>`

// Profile is a named patch strategy.
type Profile struct {
	Name string
	// Anchor is the splice point shared by every page. Ignored when
	// PageAnchors is set.
	Anchor string
	// PageAnchors selects only catalog entries with their own anchor and
	// splices after that anchor.
	PageAnchors     bool
	ImportLine      string
	InsertionPoints []document.InsertionPoint
	WrapperClass    string
	Template        string
	ImageWidth      int
	ImageHeight     int
}

// Builtin returns the built-in profiles keyed by name.
func Builtin() map[string]Profile {
	return map[string]Profile{
		ProfileHero: {
			Name:       ProfileHero,
			Anchor:     "</LearnHero>",
			ImportLine: ImageImport,
			InsertionPoints: []document.InsertionPoint{
				{Match: `import { Metadata } from "next";`, Placement: document.After},
			},
			WrapperClass: "mt-8 mb-12 overflow-hidden rounded-xl border border-white/10",
			Template:     "\n" + imageTemplate,
			ImageWidth:   1200,
			ImageHeight:  400,
		},
		ProfileFallback: {
			Name:        ProfileFallback,
			PageAnchors: true,
			ImportLine:  ImageImport,
			InsertionPoints: []document.InsertionPoint{
				{Match: "import type { Metadata }", Placement: document.Before},
				{Match: "import { Metadata }", Placement: document.Before},
				{Match: `"use client"`, Placement: document.After},
			},
			WrapperClass: "mb-8 overflow-hidden rounded-xl border border-white/10",
			Template:     imageTemplate,
			ImageWidth:   1200,
			ImageHeight:  400,
		},
	}
}

// ProfileNames lists the built-in and configured profile names.
func ProfileNames(overrides map[string]config.Profile) []string {
	seen := make(map[string]struct{})
	for name := range Builtin() {
		seen[name] = struct{}{}
	}
	for name := range overrides {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveProfile merges configured overrides onto the built-in profile of the
// same name. A configured name without a built-in starts from the hero
// profile.
func ResolveProfile(name string, overrides map[string]config.Profile) (Profile, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = ProfileHero
	}
	builtin := Builtin()
	base, known := builtin[name]
	override, configured := overrides[name]
	if !known && !configured {
		return Profile{}, fmt.Errorf("%w: unknown patch profile %q (available: %s)", batch.ErrConfiguration, name, strings.Join(ProfileNames(overrides), ", "))
	}
	if !known {
		base = builtin[ProfileHero]
		base.Name = name
	}
	if configured {
		if err := mergo.Merge(&base, fromConfig(override), mergo.WithOverride); err != nil {
			return Profile{}, fmt.Errorf("%w: merge profile %q: %w", batch.ErrConfiguration, name, err)
		}
	}
	if err := base.validate(); err != nil {
		return Profile{}, err
	}
	return base, nil
}

func fromConfig(p config.Profile) Profile {
	out := Profile{
		Anchor:       p.Anchor,
		PageAnchors:  p.PageAnchors,
		ImportLine:   strings.TrimSpace(p.ImportLine),
		WrapperClass: p.WrapperClass,
		Template:     p.Template,
		ImageWidth:   p.ImageWidth,
		ImageHeight:  p.ImageHeight,
	}
	for _, point := range p.InsertionPoints {
		out.InsertionPoints = append(out.InsertionPoints, document.InsertionPoint{
			Match:     point.Match,
			Placement: document.Placement(point.Placement),
		})
	}
	return out
}

func (p Profile) validate() error {
	if !p.PageAnchors && p.Anchor == "" {
		return fmt.Errorf("%w: profile %q needs an anchor or page_anchors", batch.ErrConfiguration, p.Name)
	}
	if p.ImageWidth <= 0 || p.ImageHeight <= 0 {
		return fmt.Errorf("%w: profile %q image dimensions must be positive", batch.ErrConfiguration, p.Name)
	}
	if _, err := p.parseTemplate(); err != nil {
		return fmt.Errorf("%w: profile %q template: %w", batch.ErrConfiguration, p.Name, err)
	}
	return nil
}

func (p Profile) parseTemplate() (*template.Template, error) {
	return template.New(p.Name).Delims("[[", "]]").Option("missingkey=error").Parse(p.Template)
}

// SnippetData is the template input for one page.
type SnippetData struct {
	Src          string
	Alt          string
	Width        int
	Height       int
	WrapperClass string
}

// Renderer produces the snippet for a page from a parsed profile template.
type Renderer struct {
	profile Profile
	tmpl    *template.Template
}

// NewRenderer parses the profile template.
func NewRenderer(p Profile) (*Renderer, error) {
	tmpl, err := p.parseTemplate()
	if err != nil {
		return nil, fmt.Errorf("%w: profile %q template: %w", batch.ErrConfiguration, p.Name, err)
	}
	return &Renderer{profile: p, tmpl: tmpl}, nil
}

// Render returns the snippet for an asset URL and alt text. Double quotes in
// the alt text are escaped for the JSX attribute.
func (r *Renderer) Render(src, alt string) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, SnippetData{
		Src:          src,
		Alt:          textutil.EscapeAttr(alt),
		Width:        r.profile.ImageWidth,
		Height:       r.profile.ImageHeight,
		WrapperClass: r.profile.WrapperClass,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
