package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)

	// CARDEX_API_BASE_URL, CARDEX_CACHE_CAPACITY, ...
	v.SetEnvPrefix("CARDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "CARDEX_LOG_LEVEL", "CARDEX_LOGGING_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind CARDEX_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "CARDEX_LOG_FORMAT", "CARDEX_LOGGING_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind CARDEX_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := normalizeConfig(config); err != nil {
		return err
	}
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			configFile := m.viper.ConfigFileUsed()
			if configFile == "" {
				configFile, _ = GetConfigFile()
			}
			return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
		}

		if createErr := m.createDefaultConfig(); createErr != nil {
			configDir, _ := GetConfigDir()
			return fmt.Errorf(
				"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
				configDir,
				createErr,
			)
		}
		if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
			return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
		}
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

// normalizeConfig fills derived values and canonicalizes enums.
func normalizeConfig(config *Config) error {
	config.API.BaseURL = strings.TrimSpace(config.API.BaseURL)
	if config.API.BaseURL == "" {
		config.API.BaseURL = defaultBaseURL
	}

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
	switch strings.ToLower(strings.TrimSpace(config.Logging.Format)) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = "console"
	}
	if config.Logging.LogDir == "" {
		logDir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		config.Logging.LogDir = logDir
	}

	if config.Tracing.ServiceName == "" {
		config.Tracing.ServiceName = defaultServiceName
	}
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	cfg := *m.config
	return &cfg
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig writes the current defaults as a TOML file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// stderr keeps `cardex page --json` output clean on first run.
	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", configFile)
	return nil
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("api.base_url", defaults.API.BaseURL)
	m.viper.SetDefault("api.timeout", defaults.API.Timeout.String())
	m.viper.SetDefault("api.user_agent", defaults.API.UserAgent)

	m.viper.SetDefault("cache.capacity", defaults.Cache.Capacity)
	m.viper.SetDefault("cache.prefetch", defaults.Cache.Prefetch)
	m.viper.SetDefault("cache.coalesce", defaults.Cache.Coalesce)

	m.setLoggingDefaults(defaults)
	m.setAppearanceDefaults(defaults)

	m.viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	m.viper.SetDefault("tracing.endpoint", defaults.Tracing.Endpoint)
	m.viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

func (m *Manager) setAppearanceDefaults(defaults *Config) {
	p := defaults.Appearance.DarkPalette
	m.viper.SetDefault("appearance.dark_palette.background", p.Background)
	m.viper.SetDefault("appearance.dark_palette.surface", p.Surface)
	m.viper.SetDefault("appearance.dark_palette.text", p.Text)
	m.viper.SetDefault("appearance.dark_palette.muted", p.Muted)
	m.viper.SetDefault("appearance.dark_palette.accent", p.Accent)
	m.viper.SetDefault("appearance.dark_palette.border", p.Border)
	m.viper.SetDefault("appearance.dark_palette.danger", p.Danger)
	m.viper.SetDefault("appearance.card_width", defaults.Appearance.CardWidth)
}
