package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/examplan/internal/config"
	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/JonMunkholm/examplan/internal/core/columns" // Register the exam plan columns
	"github.com/JonMunkholm/examplan/internal/fragments"
	"github.com/JonMunkholm/examplan/internal/logging"
	"github.com/JonMunkholm/examplan/internal/store"
	"github.com/JonMunkholm/examplan/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	var schedules core.ScheduleStore
	if cfg.Database.Enabled() {
		pool, err := connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		st := store.New(pool)
		if err := st.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		schedules = st
	} else {
		slog.Info("no database configured, schedules are kept in memory")
	}

	reader, err := fragments.NewReader(fragments.Options{
		Unit:     cfg.Parse.Unit,
		Validate: cfg.Parse.Validate,
		MaxPages: cfg.Parse.MaxPages,
		Backends: cfg.Parse.Backends,
	})
	if err != nil {
		slog.Error("failed to create pdf reader", "error", err)
		os.Exit(1)
	}

	service, err := core.NewService(reader, schedules, core.ServiceConfig{
		Layout:        layoutFromConfig(cfg.Parse),
		Semesters:     columns.SemesterKeys(),
		CacheEntries:  cfg.Cache.Entries,
		MaxConcurrent: cfg.Parse.MaxConcurrent,
		MaxWait:       cfg.Parse.MaxWaitTime,
		ParseTimeout:  cfg.Parse.Timeout,
		LoadWorkers:   cfg.Sources.LoadWorkers,
		DefaultPlan:   cfg.Sources.DefaultPlan,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	slog.Info("columns registered",
		"count", core.ColumnCount(),
		"courses", len(core.CourseKeys()),
	)

	if err := service.Restore(ctx); err != nil {
		slog.Warn("failed to restore stored schedules", "error", err)
	}

	sources, err := core.ParseSources(cfg.Sources.Files)
	if err != nil {
		slog.Error("invalid SCHEDULE_SOURCES", "error", err)
		os.Exit(1)
	}
	if err := service.LoadSources(ctx, sources); err != nil {
		// Plans that did load are served; the rest are retried by the refresh job.
		slog.Warn("some schedule sources failed to load", "error", err)
	}

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	if cfg.Sources.RefreshInterval > 0 {
		go service.StartRefreshScheduler(jobCtx, core.RefreshConfig{
			Sources:  sources,
			Interval: cfg.Sources.RefreshInterval,
		})
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for parses to complete", "active", status.Active)
			if err := service.Shutdown(shutdownCtx); err != nil {
				slog.Warn("parses did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr(), "plans", len(service.Plans()))
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

// layoutFromConfig overlays the PARSE_* settings on the default layout.
func layoutFromConfig(p config.ParseConfig) core.Layout {
	layout := core.DefaultLayout()
	layout.HeaderFragments = p.HeaderFragments
	layout.DetectHeader = p.DetectHeader
	layout.HeaderTolerance = p.HeaderTolerance
	layout.DataTolerance = p.DataTolerance
	layout.SnapDistance = p.SnapDistance
	layout.LastColumnWidth = p.LastColumnWidth
	layout.MaxPages = p.MaxPages
	layout.Binding = core.BindMode(strings.ToLower(p.Binding))
	return layout
}
