package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/infrastructure/config"
	"github.com/bnema/cardex/internal/logging"
)

func writeLogFile(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestRenderLogFiles_ListsActiveThenBackups(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := logging.BackupName(base.Add(-48 * time.Hour))
	newer := logging.BackupName(base.Add(-time.Hour))

	writeLogFile(t, dir, older, "old\n", base.Add(-48*time.Hour))
	writeLogFile(t, dir, newer, "newer\n", base.Add(-time.Hour))
	writeLogFile(t, dir, logging.LogFileName, "current\n", base.Add(-72*time.Hour))
	writeLogFile(t, dir, "unrelated.txt", "x\n", base)

	files, err := logging.ListLogFiles(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	renderLogFiles(&buf, files, styles.NewTheme(nil))
	out := buf.String()

	assert.NotContains(t, out, "unrelated.txt")
	active := strings.Index(out, logging.LogFileName+" ")
	require.GreaterOrEqual(t, active, 0)
	assert.Less(t, active, strings.Index(out, newer))
	assert.Less(t, strings.Index(out, newer), strings.Index(out, older))
}

func TestRenderLogFiles_Empty(t *testing.T) {
	files, err := logging.ListLogFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	var buf bytes.Buffer
	renderLogFiles(&buf, files, styles.NewTheme(nil))
	assert.Contains(t, buf.String(), "No log files found.")
}

func TestShowLog_LastLines(t *testing.T) {
	dir := t.TempDir()
	var content strings.Builder
	for i := 1; i <= 10; i++ {
		content.WriteString("line ")
		content.WriteString(string(rune('0' + i%10)))
		content.WriteString("\n")
	}
	path := writeLogFile(t, dir, logging.LogFileName, content.String(), time.Now())

	var buf bytes.Buffer
	require.NoError(t, showLog(&buf, path, 3, styles.NewTheme(nil)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "line 8", lines[0])
	assert.Equal(t, "line 0", lines[2])
}

func TestTailLog_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := writeLogFile(t, dir, logging.LogFileName, "before\n", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- tailLog(ctx, &buf, path, styles.NewTheme(nil)) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tailLog did not stop after cancel")
	}
	assert.NotContains(t, buf.String(), "before")
}

func TestColorizeLogLine_JSON(t *testing.T) {
	theme := styles.NewTheme(nil)
	line := `{"level":"warn","time":"2026-03-01T12:34:56Z","component":"pagecache","message":"prefetch failed"}`

	out := colorizeLogLine(line, theme)
	assert.Contains(t, out, "12:34:56")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "[pagecache]")
	assert.Contains(t, out, "prefetch failed")
}

func TestColorizeLogLine_PlainPassthrough(t *testing.T) {
	out := colorizeLogLine("12:00:00 INF page cache contents", styles.NewTheme(nil))
	assert.Equal(t, "12:00:00 INF page cache contents", out)
}

func TestClearLogFiles(t *testing.T) {
	theme := styles.NewTheme(nil)

	t.Run("keeps active file by default", func(t *testing.T) {
		dir := t.TempDir()
		writeLogFile(t, dir, logging.LogFileName, "current\n", time.Now())
		writeLogFile(t, dir, logging.BackupName(time.Now()), "backup\n", time.Now())

		files, err := logging.ListLogFiles(dir)
		require.NoError(t, err)

		var buf bytes.Buffer
		assert.Equal(t, 1, clearLogFiles(&buf, files, false, theme))
		assert.FileExists(t, filepath.Join(dir, logging.LogFileName))
		assert.NoFileExists(t, filepath.Join(dir, logging.BackupName(time.Now())))
	})

	t.Run("all removes active file", func(t *testing.T) {
		dir := t.TempDir()
		writeLogFile(t, dir, logging.LogFileName, "current\n", time.Now())

		files, err := logging.ListLogFiles(dir)
		require.NoError(t, err)

		var buf bytes.Buffer
		assert.Equal(t, 1, clearLogFiles(&buf, files, true, theme))
		assert.NoFileExists(t, filepath.Join(dir, logging.LogFileName))
	})
}

func TestResolveLogDir_PrefersConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.LogDir = "/tmp/cardex-logs"
	assert.Equal(t, "/tmp/cardex-logs", resolveLogDir(cfg))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "2.0 MB", formatSize(2*1024*1024))
}
