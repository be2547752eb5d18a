package service

import (
	"context"
	"testing"

	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/internal/leads/transport"
	"qc_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeLeadRepo serves a fixed pending queue with real offset/limit paging.
type fakeLeadRepo struct {
	leads        []repository.Lead
	phoneMatches map[string]bool
}

func (f *fakeLeadRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	for _, l := range f.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeLeadRepo) ListPending(_ context.Context, p repository.ListPendingParams) ([]repository.Lead, int, error) {
	total := len(f.leads)
	start := p.Offset
	if start > total {
		start = total
	}
	end := total
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}
	return f.leads[start:end], total, nil
}

func (f *fakeLeadRepo) Create(_ context.Context, _ repository.CreateLeadParams) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeLeadRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ repository.UpdateStatusParams) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeLeadRepo) FindMatches(_ context.Context, _ repository.MatchQuery) ([]repository.DuplicateMatch, error) {
	return nil, nil
}

func (f *fakeLeadRepo) HasPhoneMatch(_ context.Context, phoneKey string, _ uuid.UUID) (bool, error) {
	return f.phoneMatches[phoneKey], nil
}

// Annotations must survive paging: the cache is primed per scope, so the set
// behind it has to cover the whole pending scope, not just the page that
// happened to warm it.
func TestListPendingAnnotatesEveryPage(t *testing.T) {
	log := logger.New("test")
	repo := &fakeLeadRepo{
		leads: []repository.Lead{
			{ID: uuid.New(), PhoneKey: "+15550100"},
			{ID: uuid.New(), PhoneKey: "+15550101"},
			{ID: uuid.New(), PhoneKey: "+15550102"},
		},
		phoneMatches: map[string]bool{
			"+15550100": true,
			"+15550101": true,
			"+15550102": true,
		},
	}
	cache, _ := newTestCache(t)
	svc := New(repo, nil, NewDuplicateChecker(repo, log), cache, nil, "US", log)

	ctx := context.Background()
	for page := 1; page <= 3; page++ {
		resp, err := svc.ListPending(ctx, transport.ListPendingRequest{Page: page, PageSize: 1})
		if err != nil {
			t.Fatalf("page %d: unexpected error: %v", page, err)
		}
		if len(resp.Items) != 1 {
			t.Fatalf("page %d: items = %d, want 1", page, len(resp.Items))
		}
		if !resp.Items[0].HasDuplicate {
			t.Fatalf("page %d: lead lost its duplicate annotation", page)
		}
	}
}

func TestListPendingWarmCacheSkipsBatchCheck(t *testing.T) {
	log := logger.New("test")
	repo := &fakeLeadRepo{
		leads:        []repository.Lead{{ID: uuid.New(), PhoneKey: "+15550100"}},
		phoneMatches: map[string]bool{"+15550100": true},
	}
	cache, _ := newTestCache(t)
	svc := New(repo, nil, NewDuplicateChecker(repo, log), cache, nil, "US", log)

	ctx := context.Background()
	if _, err := svc.ListPending(ctx, transport.ListPendingRequest{Page: 1, PageSize: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Flip the backend answer; a warm cache must keep serving the primed set.
	repo.phoneMatches["+15550100"] = false
	resp, err := svc.ListPending(ctx, transport.ListPendingRequest{Page: 1, PageSize: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Items[0].HasDuplicate {
		t.Fatal("warm cache was not used for annotation")
	}
}
