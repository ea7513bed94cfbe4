// Package config loads picker configuration from an optional YAML file
// with environment-variable overrides, validates the library directories,
// and derives the cache layout.
package config
