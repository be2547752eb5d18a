package service

import (
	"context"
	"testing"

	"qc_portal_backend/internal/campaigns/repository"
	"qc_portal_backend/internal/campaigns/transport"
	"qc_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeCampaignRepo struct {
	created *repository.CreateParams
	updated *repository.UpdateParams
}

func (f *fakeCampaignRepo) Create(_ context.Context, params repository.CreateParams) (repository.Campaign, error) {
	f.created = &params
	return repository.Campaign{ID: uuid.New(), Name: params.Name, Timezone: params.Timezone, Active: true}, nil
}

func (f *fakeCampaignRepo) GetByID(_ context.Context, _ uuid.UUID) (repository.Campaign, error) {
	return repository.Campaign{}, repository.ErrNotFound
}

func (f *fakeCampaignRepo) List(_ context.Context, _ bool) ([]repository.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Campaign, error) {
	f.updated = &params
	return repository.Campaign{ID: id}, nil
}

func (f *fakeCampaignRepo) ExistsActive(_ context.Context, _ uuid.UUID) (bool, error) {
	return true, nil
}

func TestCreateRejectsUnknownTimezone(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := New(repo)

	_, err := svc.Create(context.Background(), transport.CreateCampaignRequest{
		Name: "Solar Q3", ClientName: "Acme", Timezone: "Mars/Olympus",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
	if repo.created != nil {
		t.Fatal("repository called despite invalid timezone")
	}
}

func TestCreateAcceptsValidTimezone(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := New(repo)

	resp, err := svc.Create(context.Background(), transport.CreateCampaignRequest{
		Name: "Solar Q3", ClientName: "Acme", Timezone: "America/Chicago", LeadsTarget: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Timezone != "America/Chicago" {
		t.Errorf("timezone = %q", resp.Timezone)
	}
}

func TestUpdateValidatesTimezoneOnlyWhenSet(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := New(repo)

	bad := "Not/AZone"
	if _, err := svc.Update(context.Background(), uuid.New(), transport.UpdateCampaignRequest{Timezone: &bad}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}

	name := "renamed"
	if _, err := svc.Update(context.Background(), uuid.New(), transport.UpdateCampaignRequest{Name: &name}); err != nil {
		t.Fatalf("update without timezone failed: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := New(&fakeCampaignRepo{})
	if _, err := svc.GetByID(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}
