// Package fetcher downloads hero images from a keyword image service.
//
// Each catalog entry maps to one asset file. A file larger than the cache
// threshold counts as already downloaded and is never requested again.
// Downloads go through a temp file so a failed or empty response never
// replaces an existing asset.
package fetcher
