// Package config loads plantel's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/plantel/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	api_url = "https://clube.example/backend"
//	token_db = "~/.local/share/plantel/session.db"
//	log_file = "~/.local/share/plantel/plantel.log"
//	log_level = "info"
//	confirm_mode = "repeat"      # or "dialog"
//	confirm_window_ms = 2500
//	request_timeout_ms = 10000
//	requests_per_second = 10     # 0 disables throttling
//
// Every field is optional. Tilde expansion is performed for token_db and
// log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors, an unknown confirm_mode or log_level,
// and a negative requests_per_second. A missing file is not an error.
package config
