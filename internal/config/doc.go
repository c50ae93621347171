// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Besides server settings it carries the
// planning defaults (roll length, source catalog, strip consumption, safety
// margin and source mode) used when a request leaves them out.
package config
