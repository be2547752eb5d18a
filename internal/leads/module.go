// Package leads provides the lead QC bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"qc_portal_backend/internal/events"
	apphttp "qc_portal_backend/internal/http"
	"qc_portal_backend/internal/leads/handler"
	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/internal/leads/service"
	"qc_portal_backend/platform/config"
	"qc_portal_backend/platform/logger"
	"qc_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	controller *service.Controller
}

// NewModule creates and initializes the leads module with all its dependencies.
// rdb may be nil, which disables the pending-queue duplicate cache. evidence
// may be nil, which skips call-recording uploads entirely.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, evidence service.EvidenceStore, campaigns service.CampaignChecker, eventBus events.Bus, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	checker := service.NewDuplicateChecker(repo, log)
	cache := service.NewQueueCache(rdb, cfg.GetQueueCacheTTL())

	svc := service.New(repo, campaigns, checker, cache, eventBus, cfg.GetDefaultPhoneRegion(), log)
	controller := service.NewController(repo, evidence, eventBus, cache, cfg.GetCommitTimeout(), log)

	// A created lead may collide with existing pending leads; drop the cached
	// annotation set so the next queue load recomputes it.
	eventBus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		if _, ok := event.(events.LeadCreated); !ok {
			return nil
		}
		cache.Invalidate(ctx)
		return nil
	}))

	return &Module{
		handler:    handler.New(svc, controller, evidence, val),
		service:    svc,
		controller: controller,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use (scheduler, reports).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
