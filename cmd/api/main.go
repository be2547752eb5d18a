package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qc_portal_backend/internal/adapters/storage"
	"qc_portal_backend/internal/campaigns"
	"qc_portal_backend/internal/events"
	apphttp "qc_portal_backend/internal/http"
	"qc_portal_backend/internal/http/router"
	"qc_portal_backend/internal/leads"
	leadservice "qc_portal_backend/internal/leads/service"
	"qc_portal_backend/internal/reports"
	"qc_portal_backend/internal/scheduler"
	"qc_portal_backend/migrations"
	"qc_portal_backend/platform/config"
	"qc_portal_backend/platform/db"
	"qc_portal_backend/platform/logger"
	"qc_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	rdb := initRedis(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	evidenceStore := initEvidenceStore(ctx, cfg, log)

	schedClient, closeSched := initSchedulerClient(cfg, log)
	if closeSched != nil {
		defer closeSched()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	campaignsModule := campaigns.NewModule(pool, val)
	leadsModule := leads.NewModule(pool, rdb, evidenceStore, campaignsModule.Service(), eventBus, val, cfg, log)
	reportsModule := reports.NewModule(pool, log)

	// A disposition flips duplicate state on other pending leads; re-prime the
	// annotation cache in the background instead of waiting for the next load.
	if schedClient != nil {
		eventBus.Subscribe(events.LeadDisposed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			e, ok := event.(events.LeadDisposed)
			if !ok {
				return nil
			}
			return schedClient.EnqueueDuplicateRescan(ctx, scheduler.DuplicateRescanPayload{
				CampaignID: e.CampaignID.String(),
			})
		}))
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			campaignsModule,
			leadsModule,
			reportsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; pending-queue duplicate cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse redis url; duplicate cache disabled", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initEvidenceStore(ctx context.Context, cfg *config.Config, log *logger.Logger) leadservice.EvidenceStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; call-recording uploads disabled")
		return nil
	}

	store, err := storage.NewRecordingStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	if err := withRetry(ctx, log, "ensure recordings bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	log.Info("storage service initialized", "bucket", cfg.GetMinioBucketCallRecordings())
	return store
}

func initSchedulerClient(cfg *config.Config, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background rescans disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
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

	return errors.New(name + ": " + lastErr.Error())
}
