// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/cardex/internal/application/port"
	"github.com/bnema/cardex/internal/application/usecase"
	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/domain/build"
	"github.com/bnema/cardex/internal/domain/entity"
	"github.com/bnema/cardex/internal/infrastructure/cache"
	"github.com/bnema/cardex/internal/infrastructure/catalogapi"
	"github.com/bnema/cardex/internal/infrastructure/config"
	"github.com/bnema/cardex/internal/infrastructure/telemetry"
	"github.com/bnema/cardex/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Theme     *styles.Theme
	BuildInfo build.Info
	Source    port.CharacterSource

	configMgr *config.Manager

	// Context with logger
	ctx            context.Context
	logCleanup     func()
	tracerShutdown telemetry.ShutdownFunc
}

// Options tweaks App construction per command.
type Options struct {
	// FileLog routes logs to the rotated log file instead of stderr
	// (the TUI owns the terminal).
	FileLog bool
}

// NewApp creates a new CLI application with all dependencies.
func NewApp(info build.Info, opts Options) (*App, error) {
	mgr, cfg := loadConfig()

	logger, logCleanup, err := logging.NewWithFile(
		logging.Config{
			Level:      logging.ParseLevel(cfg.Logging.Level),
			Format:     cfg.Logging.Format,
			TimeFormat: "15:04:05",
		},
		logging.FileConfig{
			Enabled:       opts.FileLog && cfg.Logging.EnableFileLog,
			LogDir:        cfg.Logging.LogDir,
			MaxSizeMB:     cfg.Logging.MaxSizeMB,
			MaxBackups:    cfg.Logging.MaxBackups,
			WriteToStderr: !opts.FileLog,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	ctx := logging.WithContext(context.Background(), logger)

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: info.Version,
	})
	if err != nil {
		// Tracing is optional; keep running without it.
		logger.Warn().Err(err).Msg("tracing disabled")
	}

	userAgent := cfg.API.UserAgent
	if userAgent == "" {
		userAgent = info.UserAgent()
	}
	source, err := catalogapi.NewClient(catalogapi.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: userAgent,
	})
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("create catalog client: %w", err)
	}

	logger.Debug().
		Str("base_url", cfg.API.BaseURL).
		Int("cache_capacity", cfg.Cache.Capacity).
		Bool("prefetch", cfg.Cache.Prefetch).
		Msg("app initialized")

	return &App{
		Config:         cfg,
		Theme:          styles.NewTheme(cfg),
		BuildInfo:      info,
		Source:         source,
		configMgr:      mgr,
		ctx:            ctx,
		logCleanup:     logCleanup,
		tracerShutdown: shutdown,
	}, nil
}

// NewPageCache creates a session-owned page cache from config.
// Extra options are applied after the configured ones.
func (a *App) NewPageCache(opts ...usecase.PageCacheOption) *usecase.PageCache {
	store := cache.NewFIFO[entity.PageKey, *entity.Page](a.Config.Cache.Capacity)
	base := []usecase.PageCacheOption{
		usecase.WithPrefetch(a.Config.Cache.Prefetch),
		usecase.WithCoalescing(a.Config.Cache.Coalesce),
	}
	return usecase.NewPageCache(a.Source, store, append(base, opts...)...)
}

// ConfigManager returns the loaded manager, or nil when defaults are in use.
func (a *App) ConfigManager() *config.Manager {
	return a.configMgr
}

// Close releases all resources.
func (a *App) Close() error {
	var errs []error
	if a.tracerShutdown != nil {
		errs = append(errs, a.tracerShutdown(context.WithoutCancel(a.ctx)))
	}
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return errors.Join(errs...)
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back to
// defaults when the file cannot be read.
func loadConfig() (*config.Manager, *config.Config) {
	mgr, err := config.NewManager()
	if err != nil {
		log := logging.NewFromEnv()
		log.Warn().Err(err).Msg("config manager unavailable, using defaults")
		return nil, config.DefaultConfig()
	}

	if err := mgr.Load(); err != nil {
		log := logging.NewFromEnv()
		log.Warn().Err(err).Msg("config load failed, using defaults")
		return nil, config.DefaultConfig()
	}

	return mgr, mgr.Get()
}
