// Package config loads, normalizes, and validates arrscore
// configuration data.
//
// Settings resolve in three layers with documented precedence:
// environment variables override the YAML config file, which overrides
// repository defaults. The Config type centralizes every knob the CLI
// needs; the analysis engine itself never sees it and receives plain
// numeric parameters instead.
//
// Always obtain settings through this package so downstream code
// receives expanded paths and clear validation errors.
package config
