// Package config loads sdkpath's own settings from multiple sources (YAML
// file, environment variables, CLI flags) with precedence: CLI flags >
// Environment variables > YAML config > Defaults. Besides output and logging
// options it carries the list of entries to resolve, which defaults to the
// values an Android Flutter module reads from local.properties.
package config
