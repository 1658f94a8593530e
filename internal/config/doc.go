// Package config loads pipedeck's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pipedeck/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but a field is missing or blank, use its default
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:5002"
//	poll_interval = 3       # seconds between write-count refreshes
//	poll_backoff = false    # double the delay per failed refresh, capped at 30s
//	request_timeout = 30    # seconds; pipeline creation can be slow
//	log_file = "~/.local/state/pipedeck/pipedeck.log"
//	log_level = "info"
//
// Every field is optional. Tilde expansion applies to the config path and to
// log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors and out-of-range values. A missing file is
// not an error.
package config
