package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/http/api"
	"github.com/GTTribe/tribe-ratings/internal/adapters/http/swagger"
	"github.com/GTTribe/tribe-ratings/internal/adapters/mcpserver"
	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	app "github.com/GTTribe/tribe-ratings/internal/app"
	"github.com/GTTribe/tribe-ratings/internal/config"
	"github.com/GTTribe/tribe-ratings/internal/domain/leaderboard"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
	"github.com/GTTribe/tribe-ratings/pkg/metrics"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("version", version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newRecordStore picks the HTTP store when data_url is set, else the data dir.
func newRecordStore(cfg *config.Config) (records.Store, error) {
	if cfg.DataURL != "" {
		return records.NewHTTPStore(cfg.DataURL, cfg.ManifestFile,
			records.WithFetchTimeout(time.Duration(cfg.FetchTimeoutMS)*time.Millisecond),
		)
	}
	return records.NewFSStore(cfg.DataDir, cfg.ManifestFile), nil
}

// newService translates configuration into service options.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	store, err := newRecordStore(cfg)
	if err != nil {
		return nil, err
	}
	tieBreak, err := leaderboard.ParseRepsTieBreak(cfg.RepsTieBreak)
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithRecordStore(store),
		app.WithRatingParams(rating.NewParams(cfg.RatingOptions()...)),
		app.WithRepsTieBreak(tieBreak),
		app.WithLoaderWorkers(cfg.LoaderWorkers),
		app.WithUnreportedTeams(cfg.IncludeUnreportedTeams),
		app.WithReloadDebounce(time.Duration(cfg.ReloadDebounceMS) * time.Millisecond),
	}
	if fsStore, ok := store.(*records.FSStore); ok && cfg.Watch {
		opts = append(opts, app.WithWatchDir(fsStore.Root()))
	}
	return app.New(opts...), nil
}

// newMux registers the docs, API and MCP routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	api.NewServer(svc, api.WithMaxLimit(cfg.MaxLeaderboardLimit)).Register(ctx, mux)

	tools := mcpserver.New(svc, version,
		mcpserver.WithMaxLimit(cfg.MaxLeaderboardLimit),
		mcpserver.WithLogger(log.Named("mcp")),
	)
	mux.Handle("/mcp", api.MetricsMiddleware(tools.Handler().ServeHTTP, "mcp"))

	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
