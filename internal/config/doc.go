// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to the settings needed by the server, the language model backend,
// the background worker pool and the dispatcher's default input paths, while
// keeping configuration details separate from business logic.
package config
