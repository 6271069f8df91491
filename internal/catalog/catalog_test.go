package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"heropatch/internal/batch"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	require.Equal(t, "learn", cat.Namespace)
	require.Equal(t, 49, cat.Len())
	require.Equal(t, "acquisitions", cat.Entries[0].PageID)
	require.Equal(t, "xrpl-validators", cat.Entries[cat.Len()-1].PageID)

	faq, ok := cat.Lookup("faq")
	require.True(t, ok)
	require.Equal(t, "question answer help desk", faq.Query)
	require.Equal(t, "Frequently asked questions about XRP", faq.AltText)
	require.Equal(t, `<div className="mx-auto max-w-4xl px-4 py-16">`, faq.Anchor)

	anchored := cat.WithAnchors()
	ids := make([]string, 0, len(anchored))
	for _, entry := range anchored {
		ids = append(ids, entry.PageID)
	}
	require.Equal(t, []string{"escrow", "faq", "key-people", "riddlers", "trusted-sources"}, ids)
}

func TestParseFallbackAltAndOrder(t *testing.T) {
	data := []byte(`
namespace = "guides"

[queries]
xrp-vs-swift = "swift banking wire transfer"
escrow = "digital vault security"

[alt_text]
escrow = "Digital escrow"
`)
	cat, err := Parse(data, FormatTOML, "inline")
	require.NoError(t, err)
	require.Equal(t, "guides", cat.Namespace)
	require.Len(t, cat.Entries, 2)
	require.Equal(t, "escrow", cat.Entries[0].PageID)
	require.Equal(t, "Digital escrow", cat.Entries[0].AltText)
	require.Equal(t, "Xrp Vs Swift hero image", cat.Entries[1].AltText)
	require.Empty(t, cat.WithAnchors())
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"unknown alt":    "[queries]\nfaq = \"q\"\n[alt_text]\nescrow = \"x\"\n",
		"unknown anchor": "[queries]\nfaq = \"q\"\n[anchors]\nescrow = \"<div>\"\n",
		"bad id":         "[queries]\n\"../etc\" = \"q\"\n",
		"empty query":    "[queries]\nfaq = \"  \"\n",
		"bad namespace":  "namespace = \"Learn Pages\"\n[queries]\nfaq = \"q\"\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data), FormatTOML, name)
			require.Error(t, err)
			require.True(t, errors.Is(err, batch.ErrConfiguration), "got %v", err)
		})
	}
}

func TestLoadJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json5")
	data := `{
  // learn pages
  namespace: "learn",
  queries: {"faq": "question answer help desk", "escrow": "digital vault security",},
  anchors: {"faq": "<div className=\"mx-auto\">"},
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cat.Source)
	require.Equal(t, 2, cat.Len())
	faq, ok := cat.Lookup("faq")
	require.True(t, ok)
	require.Equal(t, `<div className="mx-auto">`, faq.Anchor)
	require.Equal(t, "Faq hero image", faq.AltText)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "pages.yaml"))
	require.ErrorIs(t, err, batch.ErrConfiguration)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("  ")
	require.NoError(t, err)
	require.Equal(t, "builtin", cat.Source)
}

func TestFilter(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	all, err := cat.Filter(nil)
	require.NoError(t, err)
	require.Same(t, cat, all)

	subset, err := cat.Filter([]string{"xrp-etf", "faq", "faq"})
	require.NoError(t, err)
	require.Len(t, subset.Entries, 2)
	require.Equal(t, "faq", subset.Entries[0].PageID)
	require.Equal(t, "xrp-etf", subset.Entries[1].PageID)

	_, err = cat.Filter([]string{"missing-page"})
	require.ErrorIs(t, err, batch.ErrConfiguration)
}
