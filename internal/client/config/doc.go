// Package config loads runtime configuration for the PassVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / --config. Comments and trailing
//     commas are allowed.
//  3. Environment variables with the PASSVAULT_ prefix.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d, --data-dir string         application directory (default per-user config dir)
//	-l, --log-level string        debug, info, warn or error
//	-f, --log-format string       text, json or console
//	-w, --watch-debounce int      file watch debounce in milliseconds
//
// # JSON schema
//
//	{
//	  // where accounts.json and datapath.json live
//	  "data_dir": "/home/me/.config/PassVault",
//	  "log_level": "info",
//	  "log_format": "console",
//	  "watch_debounce": "250ms",
//	}
//
// Environment
//
//	PASSVAULT_DATA_DIR, PASSVAULT_LOG_LEVEL, PASSVAULT_LOG_FORMAT,
//	PASSVAULT_WATCH_DEBOUNCE (Go duration, e.g. "500ms")
//
// These options only shape the process. User preferences such as the theme
// or the trash retention live in the vault document itself.
package config
