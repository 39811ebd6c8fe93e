// Package config loads marquee's configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. A .env file in the working directory is loaded into the environment
//  6. TMDB_API_KEY, TMDB_BASE_URL, TMDB_LANGUAGE and MARQUEE_LOG_LEVEL
//     override whatever the file said
//
// # TOML Format
//
//	api_key = "..."
//	base_url = "https://api.themoviedb.org/3"
//	language = "pt-BR"
//	image_base_url = "https://image.tmdb.org/t/p/w500"
//	debounce_ms = 500
//	request_timeout_seconds = 10
//	requests_per_second = 20
//	log_file = "~/.local/share/marquee/marquee.log"
//	log_level = "info"
//
// Every field is optional in the file, but Validate rejects a config with no
// API key since every catalog request would fail.
//
// Missing config files are NOT an error. The returned Config is a plain value
// passed to the components that need it; nothing is kept in package state.
package config
