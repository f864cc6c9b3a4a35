// Package config loads runtime configuration for the SugarLog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config (see parseJson).
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   API base address, e.g. https://api.example.com/api
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   data directory for the local database
//	-l string   log level
//	-e          ephemeral session (nothing persisted)
//
// # Environment
//
//	SUGARLOG_API_URL, SUGARLOG_REQUEST_TIMEOUT, SUGARLOG_ONLINE_CHECK_INTERVAL,
//	SUGARLOG_DATA_DIR, SUGARLOG_LOG_LEVEL, SUGARLOG_EPHEMERAL
//
// Durations in the environment use Go syntax ("15s").
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:4000/api",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "data_dir": ".sugarlog",
//	  "log_level": "info",
//	  "ephemeral": false
//	}
package config
