// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/agency-portal/internal/account"
	"github.com/carterperez-dev/agency-portal/internal/admin"
	"github.com/carterperez-dev/agency-portal/internal/auth"
	"github.com/carterperez-dev/agency-portal/internal/config"
	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/gateway"
	"github.com/carterperez-dev/agency-portal/internal/guard"
	"github.com/carterperez-dev/agency-portal/internal/health"
	"github.com/carterperez-dev/agency-portal/internal/middleware"
	"github.com/carterperez-dev/agency-portal/internal/pages"
	"github.com/carterperez-dev/agency-portal/internal/server"
	"github.com/carterperez-dev/agency-portal/internal/session"
)

const (
	drainDelay      = 5 * time.Second
	janitorInterval = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// storageDeps holds whichever connections the session driver opened.
type storageDeps struct {
	storage session.Storage
	redis   *core.Redis
	db      *core.Database
	purger  admin.Purger
}

func (d *storageDeps) close(logger *slog.Logger) {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if d.db != nil {
		if err := d.db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting portal",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"session_driver", cfg.Session.Driver,
	)

	var tracer trace.Tracer
	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
	} else {
		tracer = telemetry.Tracer
		if cfg.Otel.Enabled {
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	deps, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	store := session.NewStore(deps.storage, cfg.Session)
	sessions := session.NewMiddleware(store, cfg.Session)

	backend, err := gateway.New(cfg.Backend, gateway.WithTracer(tracer))
	if err != nil {
		return err
	}
	logger.Info("backend gateway configured",
		"base_url", cfg.Backend.BaseURL,
		"public_endpoints", cfg.Backend.PublicEndpoints,
	)

	authHandler := auth.NewHandler(auth.NewService(backend), backend)
	accountHandler := account.NewHandler(account.NewService(backend), backend)
	pagesHandler := pages.NewHandler(
		pages.NewService(backend),
		backend,
		pages.DefaultPortals(),
	)

	healthHandler := health.NewHandler(
		health.Check{Name: "session_storage", Checker: store},
		health.Check{Name: "backend", Checker: backend},
	)

	adminCfg := admin.HandlerConfig{
		Driver:      cfg.Session.Driver,
		StoragePing: store.Ping,
		BackendPing: backend.Ping,
		Purger:      deps.purger,
	}
	if deps.db != nil {
		adminCfg.DBStats = deps.db.Stats
	}
	if deps.redis != nil {
		adminCfg.RedisStats = deps.redis.PoolStats
	}
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(sessions.Handler)

	healthHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	var limiterClient *goredis.Client
	if deps.redis != nil {
		limiterClient = deps.redis.Client
	}
	credentialLimiter := middleware.NewRateLimiter(limiterClient, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	})

	passwordLimiter := middleware.NewRateLimiter(limiterClient, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	})

	authHandler.RegisterRoutes(router, credentialLimiter.Handler)
	authHandler.RegisterLoginPages(router)
	accountHandler.RegisterRoutes(router, middleware.RequireSession, passwordLimiter.Handler)

	guards := guard.DefaultTable()
	router.Group(func(r chi.Router) {
		r.Use(guards.Middleware)

		pagesHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("portal stopped")
	return nil
}

// openStorage connects the session driver. Redis is also opened for the
// rate limiter when a URL is configured, whatever the driver.
func openStorage(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*storageDeps, error) {
	deps := &storageDeps{}

	if cfg.Redis.URL != "" {
		rdb, err := core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		deps.redis = rdb
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}

	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		deps.storage = session.NewRedisStorage(deps.redis.Client)

	case config.SessionDriverPostgres:
		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			deps.close(logger)
			return nil, err
		}
		deps.db = db
		logger.Info("database connected",
			"max_open_conns", cfg.Database.MaxOpenConns,
			"max_idle_conns", cfg.Database.MaxIdleConns,
		)

		pg := session.NewPostgresStorage(db.DB)
		if err := pg.EnsureSchema(ctx); err != nil {
			deps.close(logger)
			return nil, err
		}
		go pg.RunJanitor(ctx, janitorInterval)

		deps.storage = pg
		deps.purger = pg

	case config.SessionDriverMemory:
		logger.Warn("sessions are kept in process memory and lost on restart")
		deps.storage = session.NewMemoryStorage()

	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}

	return deps, nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
