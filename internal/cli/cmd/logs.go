package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/infrastructure/config"
	"github.com/bnema/cardex/internal/logging"
)

var (
	logsFollow   bool
	logsLines    int
	logsList     bool
	logsClearAll bool
)

const (
	defaultLogsLines  = 50
	logsFollowTick    = 100 * time.Millisecond
	logTimestampShort = "15:04:05"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View application logs",
	Long: `View the log file written while the interactive browser runs.

The browser owns the terminal, so its logs go to a rotated file in the
XDG state directory instead of stderr.

Examples:
  cardex logs            # last 50 lines
  cardex logs -n 200     # last 200 lines
  cardex logs -f         # follow in real-time
  cardex logs --list     # list the current file and rotated backups`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove rotated log files",
	Long: `Remove rotated log backups. Use --all to also remove the active log file.`,
	Args: cobra.NoArgs,
	RunE: runLogsClear,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsClearCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
	logsCmd.Flags().BoolVar(&logsList, "list", false, "list log files instead of printing them")
	logsClearCmd.Flags().BoolVar(&logsClearAll, "all", false, "also remove the active log file")
}

func runLogs(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	out := cmd.OutOrStdout()
	logDir := resolveLogDir(app.Config)

	if logsList {
		files, err := logging.ListLogFiles(logDir)
		if err != nil {
			return err
		}
		renderLogFiles(out, files, app.Theme)
		return nil
	}

	path := filepath.Join(logDir, logging.LogFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintln(out, app.Theme.Subtle.Render("No logs yet. Run 'cardex browse' to create some."))
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return tailLog(ctx, out, path, app.Theme)
	}
	return showLog(out, path, logsLines, app.Theme)
}

// resolveLogDir returns the configured log directory, or the XDG default.
func resolveLogDir(cfg *config.Config) string {
	if cfg != nil && cfg.Logging.LogDir != "" {
		return cfg.Logging.LogDir
	}
	logDir, err := config.GetLogDir()
	if err != nil {
		stateDir := os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, _ := os.UserHomeDir()
			stateDir = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(stateDir, "cardex", "logs")
	}
	return logDir
}

func renderLogFiles(w io.Writer, files []logging.LogFile, theme *styles.Theme) {
	if len(files) == 0 {
		_, _ = fmt.Fprintln(w, theme.Subtle.Render("No log files found."))
		return
	}

	_, _ = fmt.Fprintln(w, theme.Title.Render("Log files (active first):"))
	_, _ = fmt.Fprintln(w)
	for _, f := range files {
		name := f.Name
		if f.Active {
			name = theme.Highlight.Render(name)
		}
		_, _ = fmt.Fprintf(w, "  %s  %s  %s\n",
			name,
			theme.Subtle.Render(f.ModTime.Format("2006-01-02 15:04:05")),
			theme.Subtle.Render("("+formatSize(f.Size)+")"),
		)
	}
}

// showLog prints the last n lines of the log at path.
func showLog(w io.Writer, path string, n int, theme *styles.Theme) (retErr error) {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	for _, line := range lines {
		_, _ = fmt.Fprintln(w, colorizeLogLine(line, theme))
	}
	return nil
}

// tailLog follows the log at path until ctx is done.
func tailLog(ctx context.Context, w io.Writer, path string, theme *styles.Theme) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, _ = file.Seek(0, io.SeekEnd)

	_, _ = fmt.Fprintln(w, theme.Subtle.Render("Following logs... (Ctrl+C to stop)"))
	_, _ = fmt.Fprintln(w)

	reader := bufio.NewReader(file)
	pending := ""
	for {
		chunk, err := reader.ReadString('\n')
		pending += chunk
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read log file: %w", err)
		}

		for {
			idx := strings.IndexByte(pending, '\n')
			if idx == -1 {
				break
			}
			_, _ = fmt.Fprintln(w, colorizeLogLine(pending[:idx], theme))
			pending = pending[idx+1:]
		}

		if err == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(logsFollowTick):
		}
	}
}

// logEntry represents a parsed JSON log entry.
type logEntry struct {
	Level     string `json:"level"`
	Time      string `json:"time"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

// colorizeLogLine adds color based on log level.
func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Level != "" {
		return formatJSONLogLine(entry, theme)
	}

	switch {
	case containsAny(line, " ERR ", "ERROR"):
		return theme.ErrorStyle.Render(line)
	case containsAny(line, " WRN ", "WARN"):
		return theme.WarningStyle.Render(line)
	case containsAny(line, " DBG ", "DEBUG"):
		return theme.Subtle.Render(line)
	default:
		return line
	}
}

func formatJSONLogLine(entry logEntry, theme *styles.Theme) string {
	timeStr := entry.Time
	if t, err := time.Parse(time.RFC3339, entry.Time); err == nil {
		timeStr = t.Format(logTimestampShort)
	}

	var levelStr string
	switch entry.Level {
	case "error":
		levelStr = theme.ErrorStyle.Render("ERR")
	case "warn":
		levelStr = theme.WarningStyle.Render("WRN")
	case "info":
		levelStr = theme.Highlight.Render("INF")
	case "debug":
		levelStr = theme.Subtle.Render("DBG")
	case "trace":
		levelStr = theme.Subtle.Render("TRC")
	default:
		levelStr = entry.Level
	}

	msg := entry.Message
	if entry.Component != "" {
		msg = theme.Subtle.Render("["+entry.Component+"]") + " " + msg
	}
	return fmt.Sprintf("%s %s %s", theme.Subtle.Render(timeStr), levelStr, msg)
}

func containsAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func runLogsClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	files, err := logging.ListLogFiles(resolveLogDir(app.Config))
	if err != nil {
		return err
	}
	removed := clearLogFiles(cmd.OutOrStdout(), files, logsClearAll, app.Theme)
	if removed == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Subtle.Render("No logs to clear"))
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n",
		app.Theme.SuccessStyle.Render(fmt.Sprintf("Cleared %d file(s)", removed)))
	return nil
}

// clearLogFiles removes rotated backups, and the active file when all is
// set, printing one line per file.
func clearLogFiles(w io.Writer, files []logging.LogFile, all bool, theme *styles.Theme) int {
	return logging.RemoveLogFiles(files, all, func(f logging.LogFile, err error) {
		if err != nil {
			_, _ = fmt.Fprintf(w, "%s %s: %v\n", theme.ErrorStyle.Render(styles.IconX), f.Name, err)
			return
		}
		_, _ = fmt.Fprintf(w, "%s %s (%s)\n", theme.SuccessStyle.Render(styles.IconCheck), f.Name, formatSize(f.Size))
	})
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
