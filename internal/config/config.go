package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// HistoryLimit caps how many messages a room join backfills.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
	// WSMsgsPerMinute rate-limits chat messages per connection. 0 disables.
	WSMsgsPerMinute int `mapstructure:"ws_msgs_per_minute" yaml:"ws_msgs_per_minute"`

	// RequireIdentifyToken makes identify demand a valid JWT for the
	// claimed user id. Off by default for local development.
	RequireIdentifyToken bool   `mapstructure:"require_identify_token" yaml:"require_identify_token"`
	JWTSecret            string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer            string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience          string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	// APIKeyHash is the bcrypt hash of the key other subsystems present
	// on the internal push API. Empty disables those routes.
	APIKeyHash string `mapstructure:"api_key_hash" yaml:"api_key_hash"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "presence.db",
		LogLevel:          "info",
		HistoryLimit:      50,
		WSMsgsPerMinute:   120,
	}
}
