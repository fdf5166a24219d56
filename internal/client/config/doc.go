// Package config loads runtime configuration for the StackRail CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory (see parseDotenv). Values never
//     override variables already present in the environment.
//  3. Environment variables (see parseEnv).
//  4. Optional JSON file selected with --config / -c (see parseJson).
//  5. Command-line flags (see Options), which override earlier values.
//
// # Environment
//
//	SUPABASE_URL               base URL of the backend project
//	SUPABASE_ANON_KEY          public anon key sent as the apikey header
//	STACKRAIL_STATE_DIR        directory holding the local state files
//	STACKRAIL_REQUEST_TIMEOUT  per-request timeout, e.g. "15s"
//
// # JSON schema
//
// Durations accept either strings like "15s" or integer nanoseconds:
//
//	{
//	  "backend_url": "https://xyz.supabase.co",
//	  "anon_key": "eyJhbGciOi...",
//	  "state_dir": "/home/me/.stackrail",
//	  "request_timeout": "15s"
//	}
//
// The Config is built once in main and handed to every component; nothing
// in the client reads the environment on its own.
package config
