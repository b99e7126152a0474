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

	"lead_crm_backend/internal/auth"
	"lead_crm_backend/internal/events"
	apphttp "lead_crm_backend/internal/http"
	"lead_crm_backend/internal/http/router"
	"lead_crm_backend/internal/leads"
	"lead_crm_backend/internal/notification"
	"lead_crm_backend/internal/scheduler"
	"lead_crm_backend/migrations"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/db"
	"lead_crm_backend/platform/httpkit"
	"lead_crm_backend/platform/logger"
	"lead_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "leadStore", cfg.GetLeadStore())

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	health := make(map[string]apphttp.HealthChecker)

	var pool *pgxpool.Pool
	if cfg.GetLeadStore() == config.StorePostgres {
		pool = connectDatabase(ctx, cfg, log)
		defer pool.Close()
		health["database"] = pool
	} else {
		log.Warn("LEAD_STORE=memory; leads and users are kept in process memory")
	}

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		health["redis"] = apphttp.HealthCheckFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	leadNotifier, closeNotifier := initLeadNotifier(cfg, log)
	if closeNotifier != nil {
		defer closeNotifier()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(leadNotifier, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(auth.NewRepository(pool), cfg, eventBus, val, log)
	leadsModule, err := leads.NewModule(leads.NewRepository(cfg, pool), eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	var authLimiter httpkit.Limiter
	if redisClient != nil {
		authLimiter = httpkit.NewAuthRateLimiter(redisClient, cfg.GetAuthRateLimitPerMinute())
	}

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		Health:      health,
		AuthLimiter: authLimiter,
		EventBus:    eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	// Let in-flight event handlers finish before the pool and clients close.
	eventBus.Wait()
	log.Info("server stopped")
}

func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS)
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
}

// connectRedis returns nil when REDIS_URL is unset. An unreachable server is
// logged and the client kept, so rate limiting fails open until it recovers.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; auth rate limiting is per process and lead notifications are disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}
	if opt.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis ping failed", "error", err)
	} else {
		log.Info("redis connection established")
	}
	return client
}

func initLeadNotifier(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.LeadNotifier, func()) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize lead notification client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
