// Package config loads runtime configuration for the chirp terminal client.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. CHIRP_CLIENT_* environment variables.
//  4. Command-line flags.
//
// JSON example (durations accept "10s" or integer nanoseconds):
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "session_db": "chirp.db",
//	  "request_timeout": "10s"
//	}
package config
