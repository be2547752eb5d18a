// Package service contains campaign management logic.
package service

import (
	"context"
	"errors"
	"time"

	"qc_portal_backend/internal/campaigns/repository"
	"qc_portal_backend/internal/campaigns/transport"
	"qc_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the data access slice the campaign service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateParams) (repository.Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Campaign, error)
	List(ctx context.Context, activeOnly bool) ([]repository.Campaign, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Campaign, error)
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// validateTimezone rejects zone names the runtime cannot resolve. Quota day
// windows are computed in the campaign's zone, so a bad name would silently
// corrupt every report for the campaign.
func validateTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return apperr.Validation("unknown timezone: " + name)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req transport.CreateCampaignRequest) (transport.CampaignResponse, error) {
	if err := validateTimezone(req.Timezone); err != nil {
		return transport.CampaignResponse{}, err
	}

	campaign, err := s.repo.Create(ctx, repository.CreateParams{
		Name:         req.Name,
		ClientName:   req.ClientName,
		LeadsTarget:  req.LeadsTarget,
		Timezone:     req.Timezone,
		TeamID:       req.TeamID,
		QCReviewerID: req.QCReviewerID,
	})
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return toResponse(campaign), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.CampaignResponse, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.CampaignResponse{}, apperr.NotFound("campaign not found")
		}
		return transport.CampaignResponse{}, err
	}
	return toResponse(campaign), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]transport.CampaignResponse, error) {
	campaigns, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toResponse(c))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCampaignRequest) (transport.CampaignResponse, error) {
	if req.Timezone != nil {
		if err := validateTimezone(*req.Timezone); err != nil {
			return transport.CampaignResponse{}, err
		}
	}

	campaign, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Name:         req.Name,
		ClientName:   req.ClientName,
		LeadsTarget:  req.LeadsTarget,
		Timezone:     req.Timezone,
		Active:       req.Active,
		TeamID:       req.TeamID,
		QCReviewerID: req.QCReviewerID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.CampaignResponse{}, apperr.NotFound("campaign not found")
		}
		return transport.CampaignResponse{}, err
	}
	return toResponse(campaign), nil
}

// ExistsActive implements the lead module's campaign check.
func (s *Service) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ExistsActive(ctx, id)
}

func toResponse(c repository.Campaign) transport.CampaignResponse {
	return transport.CampaignResponse{
		ID:           c.ID,
		Name:         c.Name,
		ClientName:   c.ClientName,
		LeadsTarget:  c.LeadsTarget,
		Timezone:     c.Timezone,
		Active:       c.Active,
		TeamID:       c.TeamID,
		QCReviewerID: c.QCReviewerID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
