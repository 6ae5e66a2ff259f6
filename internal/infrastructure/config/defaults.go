package config

import "time"

const (
	defaultBaseURL       = "https://rickandmortyapi.com/api/character/"
	defaultTimeout       = 10 * time.Second
	defaultCacheCapacity = 4
	defaultCardWidth     = 48
	defaultServiceName   = "cardex"

	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: defaultTimeout,
		},
		Cache: CacheConfig{
			Capacity: defaultCacheCapacity,
			Prefetch: true,
			Coalesce: true,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			EnableFileLog: true,
			MaxSizeMB:     defaultLogMaxSizeMB,
			MaxBackups:    defaultLogMaxBackups,
		},
		Appearance: AppearanceConfig{
			DarkPalette: DefaultDarkPalette(),
			CardWidth:   defaultCardWidth,
		},
		Tracing: TracingConfig{
			ServiceName: defaultServiceName,
		},
	}
}

// DefaultDarkPalette returns the built-in palette.
func DefaultDarkPalette() ColorPalette {
	return ColorPalette{
		Background: "#0f0f0f",
		Surface:    "#1a1a1a",
		Text:       "#e5e5e5",
		Muted:      "#737373",
		Accent:     "#97ce4c",
		Border:     "#404040",
		Danger:     "#f87171",
	}
}
