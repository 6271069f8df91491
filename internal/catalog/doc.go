// Package catalog loads the static table of pages that receive a hero image.
//
// A catalog is three parallel mappings keyed by page id: search keywords for
// the image service, alt text for the rendered element, and the per-page
// anchors used by the fallback patch profile. The built-in catalog is
// embedded in the binary and used whenever no catalog file is configured.
package catalog
