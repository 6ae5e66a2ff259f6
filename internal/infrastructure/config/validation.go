package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	minCacheCapacity = 1
	maxCacheCapacity = 64
	maxAPITimeout    = 2 * time.Minute
	minCardWidth     = 20
	maxCardWidth     = 200
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateAPI(config)...)
	validationErrors = append(validationErrors, validateCache(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateAppearance(config)...)
	validationErrors = append(validationErrors, validateTracing(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateAPI(config *Config) []string {
	var validationErrors []string

	u, err := url.Parse(config.API.BaseURL)
	switch {
	case err != nil:
		validationErrors = append(validationErrors, fmt.Sprintf("api.base_url is not a valid URL: %v", err))
	case u.Scheme != "http" && u.Scheme != "https":
		validationErrors = append(validationErrors, "api.base_url must use http or https")
	case u.Host == "":
		validationErrors = append(validationErrors, "api.base_url must include a host")
	}

	if config.API.Timeout <= 0 || config.API.Timeout > maxAPITimeout {
		validationErrors = append(validationErrors,
			fmt.Sprintf("api.timeout must be between 1ns and %s (got %s)", maxAPITimeout, config.API.Timeout))
	}
	return validationErrors
}

func validateCache(config *Config) []string {
	if config.Cache.Capacity < minCacheCapacity || config.Cache.Capacity > maxCacheCapacity {
		return []string{fmt.Sprintf("cache.capacity must be between %d and %d (got %d)",
			minCacheCapacity, maxCacheCapacity, config.Cache.Capacity)}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled", "off":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, disabled (got %q)", config.Logging.Level))
	}
	if config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}

func validateAppearance(config *Config) []string {
	var validationErrors []string

	p := config.Appearance.DarkPalette
	colors := []struct {
		name  string
		value string
	}{
		{"background", p.Background},
		{"surface", p.Surface},
		{"text", p.Text},
		{"muted", p.Muted},
		{"accent", p.Accent},
		{"border", p.Border},
		{"danger", p.Danger},
	}
	for _, c := range colors {
		if !hexColorPattern.MatchString(c.value) {
			validationErrors = append(validationErrors,
				fmt.Sprintf("appearance.dark_palette.%s must be a hex color like #97ce4c (got %q)", c.name, c.value))
		}
	}

	if config.Appearance.CardWidth < minCardWidth || config.Appearance.CardWidth > maxCardWidth {
		validationErrors = append(validationErrors,
			fmt.Sprintf("appearance.card_width must be between %d and %d", minCardWidth, maxCardWidth))
	}
	return validationErrors
}

func validateTracing(config *Config) []string {
	if !config.Tracing.Enabled {
		return nil
	}
	if config.Tracing.Endpoint == "" {
		return []string{"tracing.endpoint is required when tracing.enabled is true"}
	}
	if u, err := url.Parse(config.Tracing.Endpoint); err != nil || u.Host == "" {
		return []string{fmt.Sprintf("tracing.endpoint is not a valid URL: %q", config.Tracing.Endpoint)}
	}
	return nil
}
