// Package config loads, normalizes, and validates greenroom's TOML
// configuration. A Config is constructed from repository defaults, then
// overridden by the user's config file when one exists.
package config
