// Package config loads, normalizes, and validates lending library configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the LENDING_DATA_DIR environment override. Storage
// locations always come from here so tests and tools can point the record
// store at isolated directories.
package config
