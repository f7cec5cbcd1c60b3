// Package config loads, normalizes, and validates namedisambig configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the NAMEDISAMBIG_POSTGRES_DSN
// environment fallback. Always obtain settings through this package so the
// store, ingest and logging layers receive absolute paths and a known backend.
package config
