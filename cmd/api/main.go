package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/config"
	apimw "github.com/showcase-labs/showcase-backend/internal/api/http/middleware"
	authrepo "github.com/showcase-labs/showcase-backend/internal/auth/repository"
	authservice "github.com/showcase-labs/showcase-backend/internal/auth/service"
	"github.com/showcase-labs/showcase-backend/internal/auth/token"
	"github.com/showcase-labs/showcase-backend/internal/bootstrap"
	"github.com/showcase-labs/showcase-backend/internal/db"
	"github.com/showcase-labs/showcase-backend/internal/jobs"
	"github.com/showcase-labs/showcase-backend/internal/logging"
	"github.com/showcase-labs/showcase-backend/internal/projects/cache"
	projectrepo "github.com/showcase-labs/showcase-backend/internal/projects/repository"
	projectservice "github.com/showcase-labs/showcase-backend/internal/projects/service"
	"github.com/showcase-labs/showcase-backend/internal/storage/postgres"
)

const serviceName = "showcase-backend"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	bootstrap.SetGinMode(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// both pools share one DB_MAX_CONNS budget
	projectsDB, usersDB := cfg.Database.SplitPools()

	pool, err := db.Open(ctx, &usersDB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoSchema {
		if err := db.EnsureSchema(ctx, pool.Pool); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("schema ensured")
	}

	sqlDB, err := postgres.NewConnection(ctx, &projectsDB)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var projectCache cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled() {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		projectCache = cache.NewRedisCache(rdb, cfg.Redis.CacheTTL, log)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	projects := projectservice.NewProjectService(projectrepo.NewProjectRepository(sqlDB), projectCache, log)

	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc, err := authservice.NewAuthService(authrepo.NewUserRepository(pool.Pool), issuer, authservice.DefaultBcryptCost)
	if err != nil {
		return err
	}

	limiter := apimw.NewIPRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginRateBurst)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.AddSweep("@every 5m", limiter); err != nil {
		return err
	}
	if cfg.Redis.Enabled() {
		if err := scheduler.AddCacheWarm(cfg.Redis.WarmSchedule, projects); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		Log:            log,
		DB:             pool.Pool,
		Projects:       projects,
		Auth:           authSvc,
		Tokens:         issuer,
		LoginLimiter:   limiter,
		Registry:       reg,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
