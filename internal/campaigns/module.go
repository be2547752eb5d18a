// Package campaigns provides the campaign management bounded context module.
package campaigns

import (
	"qc_portal_backend/internal/campaigns/handler"
	"qc_portal_backend/internal/campaigns/repository"
	"qc_portal_backend/internal/campaigns/service"
	apphttp "qc_portal_backend/internal/http"
	"qc_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the campaigns module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the campaign service for external use (leads, reports).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/campaigns")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
