package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/titanous/json5"

	"heropatch/internal/batch"
	"heropatch/internal/textutil"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// Entry is one page of the catalog.
type Entry struct {
	PageID  string
	Query   string
	AltText string
	// Anchor is the per-page splice point used by the fallback profile.
	Anchor string
}

// Catalog is an immutable, id-sorted list of entries.
type Catalog struct {
	Namespace string
	Entries   []Entry
	Source    string
}

type fileFormat struct {
	Namespace string            `toml:"namespace" json:"namespace"`
	Queries   map[string]string `toml:"queries" json:"queries"`
	AltText   map[string]string `toml:"alt_text" json:"alt_text"`
	Anchors   map[string]string `toml:"anchors" json:"anchors"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, FormatTOML, "builtin")
}

// Format identifies a catalog encoding.
type Format string

const (
	FormatTOML  Format = "toml"
	FormatJSON5 Format = "json5"
)

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json", ".json5":
		return FormatJSON5, nil
	default:
		return "", fmt.Errorf("%w: catalog %q: unsupported extension (use .toml, .json or .json5)", batch.ErrConfiguration, path)
	}
}

// Load reads a catalog file, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog: %w", batch.ErrConfiguration, err)
	}
	return Parse(data, format, path)
}

// Parse decodes and validates catalog data.
func Parse(data []byte, format Format, source string) (*Catalog, error) {
	var raw fileFormat
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatJSON5:
		err = json5.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse catalog %s: %w", batch.ErrConfiguration, source, err)
	}
	cat, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %w", batch.ErrConfiguration, source, err)
	}
	cat.Source = source
	return cat, nil
}

func build(raw fileFormat) (*Catalog, error) {
	if len(raw.Queries) == 0 {
		return nil, fmt.Errorf("no queries defined")
	}
	namespace := strings.TrimSpace(raw.Namespace)
	if namespace != "" && !textutil.IsSlug(namespace) {
		return nil, fmt.Errorf("namespace %q is not a lowercase slug", namespace)
	}
	if err := checkKeys("alt_text", raw.AltText, raw.Queries); err != nil {
		return nil, err
	}
	if err := checkKeys("anchors", raw.Anchors, raw.Queries); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw.Queries))
	for id, query := range raw.Queries {
		if !textutil.IsSlug(id) {
			return nil, fmt.Errorf("page id %q is not a lowercase slug", id)
		}
		query = strings.TrimSpace(query)
		if query == "" {
			return nil, fmt.Errorf("page %q has an empty query", id)
		}
		alt := strings.TrimSpace(raw.AltText[id])
		if alt == "" {
			alt = FallbackAlt(id)
		}
		entries = append(entries, Entry{
			PageID:  id,
			Query:   query,
			AltText: alt,
			Anchor:  raw.Anchors[id],
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PageID < entries[j].PageID })
	return &Catalog{Namespace: namespace, Entries: entries}, nil
}

func checkKeys(table string, values, queries map[string]string) error {
	var unknown []string
	for id := range values {
		if _, ok := queries[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s has pages missing from queries: %s", table, strings.Join(unknown, ", "))
}

// FallbackAlt derives alt text for pages without an explicit entry.
func FallbackAlt(pageID string) string {
	return textutil.TitleFromSlug(pageID) + " hero image"
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Lookup returns the entry for a page id.
func (c *Catalog) Lookup(pageID string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i := sort.Search(len(c.Entries), func(i int) bool { return c.Entries[i].PageID >= pageID })
	if i < len(c.Entries) && c.Entries[i].PageID == pageID {
		return c.Entries[i], true
	}
	return Entry{}, false
}

// Filter returns a catalog restricted to ids. An empty filter keeps every
// entry; an id absent from the catalog is a configuration error.
func (c *Catalog) Filter(ids []string) (*Catalog, error) {
	if len(ids) == 0 {
		return c, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := c.Lookup(id); !ok {
			return nil, fmt.Errorf("%w: page %q is not in the catalog", batch.ErrConfiguration, id)
		}
		want[id] = struct{}{}
	}
	filtered := make([]Entry, 0, len(want))
	for _, entry := range c.Entries {
		if _, ok := want[entry.PageID]; ok {
			filtered = append(filtered, entry)
		}
	}
	return &Catalog{Namespace: c.Namespace, Entries: filtered, Source: c.Source}, nil
}

// WithAnchors returns the entries that define a per-page anchor.
func (c *Catalog) WithAnchors() []Entry {
	if c == nil {
		return nil
	}
	var out []Entry
	for _, entry := range c.Entries {
		if entry.Anchor != "" {
			out = append(out, entry)
		}
	}
	return out
}
