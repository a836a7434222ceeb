// Package config loads the server configuration from PUNISHCARDS_*
// environment variables and an optional config.yaml, applies defaults for
// every non-secret setting and validates the result.
package config
