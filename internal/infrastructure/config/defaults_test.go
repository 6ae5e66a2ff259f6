package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_CacheProfile(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4, cfg.Cache.Capacity)
	assert.True(t, cfg.Cache.Prefetch)
	assert.True(t, cfg.Cache.Coalesce)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestGetXDGDirs_DevMode(t *testing.T) {
	t.Setenv("ENV", "dev")
	dirs, err := GetXDGDirs()
	assert.NoError(t, err)
	assert.Contains(t, dirs.ConfigHome, ".dev")
	assert.Equal(t, dirs.ConfigHome, dirs.StateHome)
}

func TestGetManDir_UsesXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/cardex-data")
	dir, err := GetManDir()
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/cardex-data/man/man1", dir)
}
