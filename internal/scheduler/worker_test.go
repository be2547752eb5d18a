package scheduler

import (
	"testing"
	"time"

	"qc_portal_backend/internal/leads/domain"
	"qc_portal_backend/internal/reports"

	"github.com/google/uuid"
)

func TestDayCloseRefStaysInPayloadLocalDay(t *testing.T) {
	ref, err := dayCloseRef(DayClosePayload{Date: "2026-08-30", Timezone: "America/Chicago"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	if got := ref.In(loc).Format("2006-01-02"); got != "2026-08-30" {
		t.Fatalf("reference resolves to local day %s, want 2026-08-30", got)
	}
}

func TestDayCloseRefDefaultsToUTC(t *testing.T) {
	ref, err := dayCloseRef(DayClosePayload{Date: "2026-08-30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ref.UTC().Format("2006-01-02"); got != "2026-08-30" {
		t.Fatalf("reference resolves to UTC day %s, want 2026-08-30", got)
	}
}

func TestDayCloseRefRejectsBadZone(t *testing.T) {
	if _, err := dayCloseRef(DayClosePayload{Date: "2026-08-30", Timezone: "Mars/Olympus"}); err == nil {
		t.Fatal("expected error for unresolvable timezone")
	}
}

// A lead qualified mid-afternoon on the closing day must land in that day's
// bucket when the aggregation reference comes from the payload. A reference
// parsed without the zone would summarize the previous Chicago day.
func TestDayCloseSummaryCountsClosingLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	campaign := reports.CampaignInfo{
		ID:          uuid.New(),
		Name:        "Midwest Solar",
		LeadsTarget: 5,
		Timezone:    "America/Chicago",
		Active:      true,
	}
	lead := reports.LeadFact{
		LeadID:     uuid.New(),
		CampaignID: campaign.ID,
		Status:     domain.StatusQualified,
		CreatedAt:  time.Date(2026, 8, 30, 14, 0, 0, 0, loc),
	}

	ref, err := dayCloseRef(DayClosePayload{Date: "2026-08-30", Timezone: "America/Chicago"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agg := reports.Aggregator{Now: func() time.Time { return ref.Add(48 * time.Hour) }}
	daily := agg.Daily([]reports.LeadFact{lead}, []reports.CampaignInfo{campaign}, ref)
	if len(daily) != 1 {
		t.Fatalf("daily rows = %d, want 1", len(daily))
	}
	if daily[0].Achieved != 1 {
		t.Fatalf("achieved = %d, want 1", daily[0].Achieved)
	}
	if daily[0].Missed != 4 {
		t.Fatalf("missed = %d, want 4", daily[0].Missed)
	}
}
