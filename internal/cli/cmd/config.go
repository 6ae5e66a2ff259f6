package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/infrastructure/config"
)

var (
	configShowJSON    bool
	configSchemaWrite bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show where the config file lives, the effective settings, and the JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (file + environment)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd, configSchemaCmd)
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output as JSON")
	configSchemaCmd.Flags().BoolVarP(&configSchemaWrite, "write", "w", false, "write config.schema.json next to the config file")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	cfg := app.Config
	out := cmd.OutOrStdout()

	if configShowJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	r := styles.NewConfigRenderer(app.Theme)
	path := "(defaults)"
	if mgr := app.ConfigManager(); mgr != nil {
		path = mgr.GetConfigFile()
	}
	_, _ = fmt.Fprintln(out, r.RenderConfigInfo(path))
	for _, section := range configSections(cfg) {
		_, _ = fmt.Fprintln(out, r.RenderSettings(section.title, section.rows))
	}
	return nil
}

type configSection struct {
	title string
	rows  [][2]string
}

func configSections(cfg *config.Config) []configSection {
	userAgent := cfg.API.UserAgent
	if userAgent == "" {
		userAgent = "(default)"
	}
	p := cfg.Appearance.DarkPalette
	return []configSection{
		{"api", [][2]string{
			{"base_url", cfg.API.BaseURL},
			{"timeout", cfg.API.Timeout.String()},
			{"user_agent", userAgent},
		}},
		{"cache", [][2]string{
			{"capacity", strconv.Itoa(cfg.Cache.Capacity)},
			{"prefetch", strconv.FormatBool(cfg.Cache.Prefetch)},
			{"coalesce", strconv.FormatBool(cfg.Cache.Coalesce)},
		}},
		{"logging", [][2]string{
			{"level", cfg.Logging.Level},
			{"format", cfg.Logging.Format},
			{"log_dir", cfg.Logging.LogDir},
			{"enable_file_log", strconv.FormatBool(cfg.Logging.EnableFileLog)},
			{"max_size_mb", strconv.Itoa(cfg.Logging.MaxSizeMB)},
			{"max_backups", strconv.Itoa(cfg.Logging.MaxBackups)},
		}},
		{"appearance", [][2]string{
			{"card_width", strconv.Itoa(cfg.Appearance.CardWidth)},
			{"accent", p.Accent},
			{"text", p.Text},
			{"muted", p.Muted},
		}},
		{"tracing", [][2]string{
			{"enabled", strconv.FormatBool(cfg.Tracing.Enabled)},
			{"endpoint", cfg.Tracing.Endpoint},
			{"service_name", cfg.Tracing.ServiceName},
		}},
	}
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	if configSchemaWrite {
		path, err := config.GenerateSchemaFile()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), styles.NewConfigRenderer(styles.NewTheme(nil)).RenderSchemaWritten(path))
		return nil
	}

	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
