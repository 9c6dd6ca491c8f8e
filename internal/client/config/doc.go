// Package config loads runtime configuration for the Portfolio Visualizer
// CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-env, or ./.env when present) overlaid by the process
//     environment. Only PV_* variables are read.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string        base URL of the remote API
//	-s string        credential store: sqlite, memory or redis
//	-f string        sqlite database file
//	-r string        redis address (host:port)
//	-k string        credential slot name
//	-i duration      heartbeat interval
//	-t duration      per-request timeout
//	-n int           extra verify attempts while the API is unreachable
//	-keep            keep the credential when the API stays unreachable
//	-l string        log level (debug, info, warn, error)
//	-log-format      text or json
//	-plain           print raw markdown
//	-style string    glamour style (dark, light, ascii, notty)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "store_backend": "sqlite",
//	  "heartbeat_interval": "3s",
//	  "verify_retries": 2
//	}
package config
