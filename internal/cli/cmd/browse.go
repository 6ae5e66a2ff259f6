package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/cardex/internal/application/usecase"
	"github.com/bnema/cardex/internal/cli/model"
	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/infrastructure/config"
	"github.com/bnema/cardex/internal/logging"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse characters interactively",
	Long: `Open the interactive card browser.

Keys:
  n / p      next / previous page
  /          search by name (live, enter to search from page 1)
  r          reset the filter
  enter      show the selected character's species
  ?          toggle full help
  q          quit

Logs are written to the cardex log file while the browser is open.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx := logging.WithComponent(app.Ctx(), "browse")
	log := logging.FromContext(ctx)

	pages := app.NewPageCache()
	session := usecase.NewBrowseSession(pages)
	m := model.NewCatalogModel(ctx, app.Theme, session, model.CatalogModelConfig{
		CardWidth: app.Config.Appearance.CardWidth,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if mgr := app.ConfigManager(); mgr != nil {
		mgr.OnConfigChange(func(cfg *config.Config) {
			log.Info().Msg("config changed, reloading theme")
			p.Send(model.ThemeChangedMsg{
				Theme:     styles.NewTheme(cfg),
				CardWidth: cfg.Appearance.CardWidth,
			})
		})
		if err := mgr.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watch unavailable")
		}
	}

	_, err := p.Run()

	stats := pages.Stats()
	log.Debug().
		Int("resident", stats.Size).
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int64("prefetches", stats.Prefetches).
		Int64("prefetch_failures", stats.PrefetchFailures).
		Int64("evictions", stats.Evictions).
		Msg("browse session ended")

	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
