package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cardex/internal/domain/entity"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithFile_DisabledIsNop(t *testing.T) {
	logger, cleanup, err := NewWithFile(DefaultConfig(), FileConfig{})
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNewWithFile_WritesToLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	cfg := DefaultConfig()
	cfg.Format = "json"
	logger, cleanup, err := NewWithFile(cfg, FileConfig{Enabled: true, LogDir: dir})
	require.NoError(t, err)

	logger.Info().Str("term", "rick").Msg("page fetched")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"term":"rick"`)
	assert.Contains(t, string(data), "page fetched")
}

func TestWithPageKey_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithContext(context.Background(), logger)

	ctx = WithPageKey(WithComponent(ctx, "pagecache"), entity.NewPageKey("morty", 3))
	FromContext(ctx).Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"component":"pagecache"`)
	assert.Contains(t, out, `"term":"morty"`)
	assert.Contains(t, out, `"page":3`)
}
