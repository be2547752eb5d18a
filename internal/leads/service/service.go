// Package service contains the lead QC service logic: intake, pending queue
// annotation, duplicate conflict checks, and the disposition controller.
package service

import (
	"context"
	"errors"
	"strings"

	"qc_portal_backend/internal/events"
	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/internal/leads/transport"
	"qc_portal_backend/platform/apperr"
	"qc_portal_backend/platform/logger"
	"qc_portal_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository is the data access slice the lead service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.DuplicateFinder
}

// CampaignChecker verifies that a lead's campaign exists and is active.
// Implemented by the campaigns module.
type CampaignChecker interface {
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service handles lead intake and queue reads.
type Service struct {
	repo      Repository
	campaigns CampaignChecker
	checker   *DuplicateChecker
	cache     *QueueCache
	bus       events.Bus
	region    string
	log       *logger.Logger
}

func New(repo Repository, campaigns CampaignChecker, checker *DuplicateChecker, cache *QueueCache, bus events.Bus, region string, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		checker:   checker,
		cache:     cache,
		bus:       bus,
		region:    region,
		log:       log,
	}
}

// Create registers a new pending lead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if s.campaigns != nil {
		active, err := s.campaigns.ExistsActive(ctx, req.CampaignID)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if !active {
			return transport.LeadResponse{}, apperr.Validation("campaign not found or inactive")
		}
	}

	normalized := phone.NormalizeE164Region(req.Phone, s.region)

	params := repository.CreateLeadParams{
		HomeownerFirstName: req.FirstName,
		HomeownerLastName:  req.LastName,
		Phone:              normalized,
		PhoneKey:           phone.MatchKey(req.Phone, s.region),
		Address:            req.Address,
		AddressKey:         addressKey(req.Address),
		CampaignID:         req.CampaignID,
		AgentID:            req.AgentID,
		TeamID:             req.TeamID,
	}
	if req.Email != "" {
		email := req.Email
		params.Email = &email
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     lead.ID,
			CampaignID: lead.CampaignID,
			Phone:      lead.PhoneKey,
		})
	}

	return toLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// CheckDuplicates runs the single-lead conflict check (phone and address).
func (s *Service) CheckDuplicates(ctx context.Context, id uuid.UUID) (transport.DuplicateCheckResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DuplicateCheckResponse{}, apperr.NotFound("lead not found")
		}
		return transport.DuplicateCheckResponse{}, err
	}

	matches, err := s.checker.CheckOne(ctx, lead)
	if err != nil {
		return transport.DuplicateCheckResponse{}, err
	}

	resp := transport.DuplicateCheckResponse{
		IsDuplicate: len(matches) > 0,
		Matches:     make([]transport.DuplicateMatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, toDuplicateMatchResponse(m))
	}
	return resp, nil
}

// ListPending returns the QC queue with best-effort duplicate annotations.
// Annotations come from the redis cache when warm; otherwise a batch check
// runs and primes the cache for the scope.
func (s *Service) ListPending(ctx context.Context, req transport.ListPendingRequest) (transport.PendingQueueResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 50
	}
	if req.PageSize > 200 {
		req.PageSize = 200
	}

	leads, total, err := s.repo.ListPending(ctx, repository.ListPendingParams{
		CampaignID: req.CampaignID,
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	})
	if err != nil {
		return transport.PendingQueueResponse{}, err
	}

	scope := ""
	if req.CampaignID != nil {
		scope = req.CampaignID.String()
	}

	flagged, hit := s.cache.Get(ctx, scope)
	if !hit {
		flagged = s.primeDuplicateFlags(ctx, req.CampaignID, scope, leads)
	}

	items := make([]transport.PendingLeadResponse, 0, len(leads))
	for _, lead := range leads {
		_, dup := flagged[lead.PhoneKey]
		items = append(items, transport.PendingLeadResponse{
			LeadResponse: toLeadResponse(lead),
			HasDuplicate: dup,
		})
	}

	totalPages := (total + req.PageSize - 1) / req.PageSize

	return transport.PendingQueueResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// duplicateScanLimit bounds the pending listing used to build a scope-wide
// duplicate set.
const duplicateScanLimit = 10000

// primeDuplicateFlags builds the duplicate set for the whole pending scope
// and caches it. The page being rendered is only a slice of the scope; a set
// computed from the page alone would be served to every other page from the
// cache. If the scope listing fails, the current page is checked directly
// and the cache is left cold for the next load to retry.
func (s *Service) primeDuplicateFlags(ctx context.Context, campaignID *uuid.UUID, scope string, page []repository.Lead) map[string]struct{} {
	all, _, err := s.repo.ListPending(ctx, repository.ListPendingParams{
		CampaignID: campaignID,
		Limit:      duplicateScanLimit,
	})
	if err != nil {
		if s.log != nil {
			s.log.Warn("pending scope listing failed, annotating current page only", "error", err, "scope", scope)
		}
		return s.checker.CheckBatch(ctx, page)
	}

	flagged := s.checker.CheckBatch(ctx, all)
	s.cache.Set(ctx, scope, flagged)
	return flagged
}

// RefreshDuplicateSet recomputes the duplicate annotation set for a scope and
// primes the cache. Used by the scheduler's periodic rescan.
func (s *Service) RefreshDuplicateSet(ctx context.Context, campaignID *uuid.UUID) error {
	leads, _, err := s.repo.ListPending(ctx, repository.ListPendingParams{
		CampaignID: campaignID,
		Limit:      duplicateScanLimit,
	})
	if err != nil {
		return err
	}

	scope := ""
	if campaignID != nil {
		scope = campaignID.String()
	}
	s.cache.Set(ctx, scope, s.checker.CheckBatch(ctx, leads))
	return nil
}

// addressKey normalizes an address for equality matching: lowercase, strip
// punctuation, collapse runs of whitespace.
func addressKey(address string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(address)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == ',' || r == '.' || r == '-' || r == '/':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
