package config

import "time"

// Config represents the complete configuration for cardex.
type Config struct {
	// API configures the remote character catalog.
	API APIConfig `mapstructure:"api" toml:"api" json:"api"`
	// Cache controls the per-session page cache.
	Cache      CacheConfig      `mapstructure:"cache" toml:"cache" json:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging" toml:"logging" json:"logging"`
	Appearance AppearanceConfig `mapstructure:"appearance" toml:"appearance" json:"appearance"`
	// Tracing exports OpenTelemetry spans over OTLP/HTTP (off by default).
	Tracing TracingConfig `mapstructure:"tracing" toml:"tracing" json:"tracing"`
}

// APIConfig holds catalog endpoint settings.
type APIConfig struct {
	// BaseURL is the character endpoint; page and name are sent as query parameters.
	BaseURL string `mapstructure:"base_url" toml:"base_url" json:"base_url" jsonschema:"format=uri"`
	// Timeout bounds a single page request (e.g. "10s").
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" json:"timeout" jsonschema:"type=string"`
	// UserAgent overrides the default "cardex/<version>" header.
	UserAgent string `mapstructure:"user_agent" toml:"user_agent" json:"user_agent,omitempty"`
}

// CacheConfig holds page cache settings.
type CacheConfig struct {
	// Capacity is the maximum number of resident pages (default: 4)
	Capacity int `mapstructure:"capacity" toml:"capacity" json:"capacity" jsonschema:"minimum=1,maximum=64"`
	// Prefetch loads the next page in the background after each lookup (default: true)
	Prefetch bool `mapstructure:"prefetch" toml:"prefetch" json:"prefetch"`
	// Coalesce merges concurrent requests for the same page into one fetch (default: true)
	Coalesce bool `mapstructure:"coalesce" toml:"coalesce" json:"coalesce"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
}

// AppearanceConfig holds TUI styling preferences.
type AppearanceConfig struct {
	DarkPalette ColorPalette `mapstructure:"dark_palette" toml:"dark_palette" json:"dark_palette"`
	// CardWidth is the width of a character card in columns.
	CardWidth int `mapstructure:"card_width" toml:"card_width" json:"card_width" jsonschema:"minimum=20,maximum=200"`
}

// ColorPalette contains semantic color tokens.
type ColorPalette struct {
	Background string `mapstructure:"background" toml:"background" json:"background"`
	Surface    string `mapstructure:"surface" toml:"surface" json:"surface"`
	Text       string `mapstructure:"text" toml:"text" json:"text"`
	Muted      string `mapstructure:"muted" toml:"muted" json:"muted"`
	Accent     string `mapstructure:"accent" toml:"accent" json:"accent"`
	Border     string `mapstructure:"border" toml:"border" json:"border"`
	Danger     string `mapstructure:"danger" toml:"danger" json:"danger"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Endpoint is the OTLP/HTTP collector URL, e.g. http://localhost:4318
	Endpoint    string `mapstructure:"endpoint" toml:"endpoint" json:"endpoint"`
	ServiceName string `mapstructure:"service_name" toml:"service_name" json:"service_name"`
}
