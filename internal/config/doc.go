// Package config loads and validates the analyzer run configuration.
//
// Values come from three layers with increasing precedence: built-in
// defaults, an optional YAML file, and ARBSCAN_-prefixed environment
// variables. The assembled configuration is validated before use so a bad
// threshold or a malformed date fails at startup, not mid-batch.
package config
