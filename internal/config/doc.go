// Package config loads runtime configuration for the pushclip agent.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-r string   address of the push relay server
//	-d string   path to the local database file
//	-n string   device nickname override
//	-i int      clipboard poll interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "200ms" or integer nanoseconds:
//
//	{
//	  "relay_url": "nats://127.0.0.1:4222",
//	  "database_path": "pushclip.db",
//	  "poll_interval": "1s",
//	  "debounce_window": "200ms",
//	  "s3_bucket": "pushclip-backups",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "..."
//	}
//
// Primary API
//
//   - type Config                     - holds relay, store, watcher and S3 settings
//   - func LoadConfig() *Config       - builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   - sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
