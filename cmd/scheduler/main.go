package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qc_portal_backend/internal/email"
	"qc_portal_backend/internal/events"
	leadrepo "qc_portal_backend/internal/leads/repository"
	leadservice "qc_portal_backend/internal/leads/service"
	"qc_portal_backend/internal/reports"
	"qc_portal_backend/internal/scheduler"
	"qc_portal_backend/platform/config"
	"qc_portal_backend/platform/db"
	"qc_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	sender := email.NewSender(cfg)

	var rdb *redis.Client
	if cfg.GetRedisURL() != "" {
		if opt, err := redis.ParseURL(cfg.GetRedisURL()); err == nil {
			rdb = redis.NewClient(opt)
			defer rdb.Close()
		} else {
			log.Error("failed to parse redis url", "error", err)
		}
	}

	// Worker-side lead service wiring (no HTTP handlers required).
	repo := leadrepo.New(pool)
	checker := leadservice.NewDuplicateChecker(repo, log)
	cache := leadservice.NewQueueCache(rdb, cfg.GetQueueCacheTTL())
	leadsSvc := leadservice.New(repo, nil, checker, cache, eventBus, cfg.GetDefaultPhoneRegion(), log)

	reportsRepo := reports.NewRepository(pool)
	reportsSvc := reports.NewService(reportsRepo, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	sweeper := scheduler.NewDaySweeper(client, reportsRepo, 15*time.Minute, log)
	go sweeper.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, leadsSvc, reportsSvc, reportsRepo, sender, cfg.GetReportRecipients(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler stopped")
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
