package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/config"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/scheduler"
	"github.com/MrSnakeDoc/linkbot/internal/sources/homepage"
	"github.com/MrSnakeDoc/linkbot/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	comps    *Components
	server   *httpserver.Server
	gc       *scheduler.GarbageCollector // nil when retention is disabled
	digest   *scheduler.DigestScheduler  // nil when the digest is disabled
	importer *scheduler.ImportReloader   // nil when no import file is configured
}

// New wires every component for the long-running server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	comps, err := Open(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: loggerClient,
		comps:  comps,
	}

	if cfg.Retention > 0 {
		a.gc = scheduler.NewGarbageCollector(
			comps.Store,
			loggerClient.Named("gc"),
			cfg.GCInterval,
			cfg.Retention,
		)
	} else {
		loggerClient.Info("resource retention disabled")
	}

	if cfg.DigestEnabled {
		a.digest, err = scheduler.NewDigestScheduler(
			cfg.DigestSchedule,
			comps.Store,
			scheduler.LogSink(loggerClient.Named("digest")),
			comps.Store.Now,
			loggerClient.Named("digest"),
		)
		if err != nil {
			comps.Close()
			return nil, err
		}
	}

	// Create manual reload trigger channel (only when an import file is configured)
	var reloadTrigger chan struct{}
	if cfg.ImportFile != "" {
		format, err := homepage.ParseFormat(cfg.ImportFormat)
		if err != nil {
			comps.Close()
			return nil, err
		}
		loggerClient.Info("homepage import configured",
			logger.String("file", cfg.ImportFile),
			logger.String("format", string(format)))

		reloadTrigger = make(chan struct{}, 1)
		a.importer = scheduler.NewImportReloader(
			homepage.NewImporter(cfg.ImportFile, format, comps.Store, loggerClient.Named("import")),
			loggerClient.Named("import"),
			cfg.ImportInterval,
			reloadTrigger,
		)
	}

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         comps.Store,
		Search:        comps.Search,
		Categorizer:   comps.Categorizer,
		StoreBackend:  cfg.StoreBackend,
		RedisClient:   comps.RedisClient,
		MemoryIndex:   comps.MemoryIndex,
		ReloadTrigger: reloadTrigger,
	}
	a.server = httpserver.New(cfg, loggerClient, d)

	return a, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkbot v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("linkbot %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.comps.Close()

	// Start importer (imports once, then refreshes periodically)
	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start homepage importer: %w", err)
		}
		a.logger.Info("homepage importer started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

	// Start garbage collector
	if a.gc != nil {
		if err := a.gc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start garbage collector: %w", err)
		}
		a.logger.Info("garbage collector started",
			logger.Duration("interval", a.cfg.GCInterval),
			logger.Duration("retention", a.cfg.Retention))
	}

	if a.digest != nil {
		if err := a.digest.Start(ctx); err != nil {
			return fmt.Errorf("failed to start digest scheduler: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.importer != nil {
		a.importer.Stop()
	}
	if a.gc != nil {
		a.gc.Stop()
	}
	if a.digest != nil {
		a.digest.Stop()
	}
	if runErr != nil {
		return runErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ linkbot stopped cleanly")
	return nil
}
