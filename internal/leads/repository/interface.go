package repository

import (
	"context"

	"github.com/google/uuid"
)

// Consumer-driven interfaces. Services compose only the slices they need.

type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	ListPending(ctx context.Context, params ListPendingParams) ([]Lead, int, error)
}

type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, params UpdateStatusParams) (Lead, error)
}

type DuplicateFinder interface {
	FindMatches(ctx context.Context, q MatchQuery) ([]DuplicateMatch, error)
	HasPhoneMatch(ctx context.Context, phoneKey string, excludeID uuid.UUID) (bool, error)
}
