package reports

import (
	"testing"
	"time"

	"qc_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestRankPadsToTenRows(t *testing.T) {
	agents := []AgentQuotaSnapshot{
		{AgentID: uuid.New(), FullName: "Ada", Qualified: 8, Disqualified: 1},
		{AgentID: uuid.New(), FullName: "Ben", Qualified: 3, Disqualified: 0},
		{AgentID: uuid.New(), FullName: "Cal", Qualified: 9, Disqualified: 2},
	}

	ranked := Rank(agents)

	if len(ranked) != LeaderboardSize {
		t.Fatalf("rows = %d, want %d", len(ranked), LeaderboardSize)
	}
	if ranked[0].FullName != "Ada" || ranked[0].Score != 7 {
		t.Errorf("first = %s score %d, want Ada 7", ranked[0].FullName, ranked[0].Score)
	}
	if ranked[1].FullName != "Cal" || ranked[1].Score != 7 {
		t.Errorf("second = %s score %d, want Cal 7", ranked[1].FullName, ranked[1].Score)
	}
	if ranked[2].FullName != "Ben" {
		t.Errorf("third = %s, want Ben", ranked[2].FullName)
	}
	for i := 3; i < LeaderboardSize; i++ {
		row := ranked[i]
		if row.FullName != "-" || row.Total != 0 || row.Score != 0 {
			t.Errorf("row %d = %+v, want placeholder", i, row)
		}
	}
}

func TestRankEqualScoresKeepInputOrder(t *testing.T) {
	a := AgentQuotaSnapshot{AgentID: uuid.New(), FullName: "First", Qualified: 5}
	b := AgentQuotaSnapshot{AgentID: uuid.New(), FullName: "Second", Qualified: 5}

	ranked := Rank([]AgentQuotaSnapshot{a, b})

	if ranked[0].FullName != "First" || ranked[1].FullName != "Second" {
		t.Errorf("tie order = %s, %s; equal scores must keep input order", ranked[0].FullName, ranked[1].FullName)
	}
}

func TestRankTruncatesBeyondTen(t *testing.T) {
	agents := make([]AgentQuotaSnapshot, 0, 12)
	for i := 0; i < 12; i++ {
		agents = append(agents, AgentQuotaSnapshot{AgentID: uuid.New(), FullName: "agent", Qualified: i})
	}

	ranked := Rank(agents)

	if len(ranked) != LeaderboardSize {
		t.Fatalf("rows = %d, want %d", len(ranked), LeaderboardSize)
	}
	if ranked[0].Score != 11 || ranked[9].Score != 2 {
		t.Errorf("scores = %d..%d, want 11..2", ranked[0].Score, ranked[9].Score)
	}
}

func TestSnapshotAgentsScoreIgnoresNeutralBuckets(t *testing.T) {
	agentID := uuid.New()
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	facts := []LeadFact{
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusQualified, CreatedAt: at},
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusQualified, CreatedAt: at},
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusDisqualified, CreatedAt: at},
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusDuplicate, CreatedAt: at},
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusCallback, CreatedAt: at},
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusPending, CreatedAt: at},
	}

	snaps := SnapshotAgents(facts, map[uuid.UUID]string{agentID: "Ada"})

	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
	s := snaps[0]
	if s.Score != 1 {
		t.Errorf("score = %d, want 1 (duplicates, callbacks, pending ignored)", s.Score)
	}
	if s.Total != 6 {
		t.Errorf("total = %d, want 6", s.Total)
	}
	if s.FullName != "Ada" {
		t.Errorf("fullName = %q", s.FullName)
	}
}

func TestSnapshotAgentsOverrideCountsAsDisqualified(t *testing.T) {
	agentID := uuid.New()
	facts := []LeadFact{
		{LeadID: uuid.New(), AgentID: agentID, Status: domain.StatusDisqualified, OverrideQualified: true},
	}

	snaps := SnapshotAgents(facts, nil)

	if snaps[0].Disqualified != 1 || snaps[0].Qualified != 0 {
		t.Errorf("snapshot = %+v; override must stay disqualified for agent scoring", snaps[0])
	}
}
