// Package config loads, normalizes, and validates the photosift TOML
// configuration. Load applies defaults first, overlays the file when one
// exists, expands all path fields, and rejects configurations that cannot
// drive a safe reconcile run.
package config
