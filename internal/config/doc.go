// Package config loads, normalizes, and validates heropatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HEROPATCH_PROJECT_ROOT. The Layout helper derives every asset and page path
// from the project section so the fetch and patch phases agree on where files
// live.
package config
