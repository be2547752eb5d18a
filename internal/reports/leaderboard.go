package reports

import (
	"sort"

	"qc_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// LeaderboardSize is the fixed row count every leaderboard response carries.
const LeaderboardSize = 10

// placeholderName fills rows below the real agent count.
const placeholderName = "-"

// AgentQuotaSnapshot is a per-agent aggregate for a window. Derived on every
// load, never persisted. Override-qualified leads count as disqualified here:
// the override flips client delivery, not agent payout.
type AgentQuotaSnapshot struct {
	AgentID      uuid.UUID `json:"agentId"`
	FullName     string    `json:"fullName"`
	Qualified    int       `json:"qualified"`
	Disqualified int       `json:"disqualified"`
	Duplicate    int       `json:"duplicate"`
	Pending      int       `json:"pending"`
	Callback     int       `json:"callback"`
	Total        int       `json:"total"`
	Score        int       `json:"score"`
}

// SnapshotAgents folds lead facts into per-agent snapshots. names maps agent
// IDs to display names; an unknown agent keeps its ID-less row out of the
// board by getting the placeholder name.
func SnapshotAgents(leads []LeadFact, names map[uuid.UUID]string) []AgentQuotaSnapshot {
	byAgent := make(map[uuid.UUID]*AgentQuotaSnapshot)
	order := make([]uuid.UUID, 0)

	for _, f := range leads {
		snap, ok := byAgent[f.AgentID]
		if !ok {
			name := names[f.AgentID]
			if name == "" {
				name = placeholderName
			}
			snap = &AgentQuotaSnapshot{AgentID: f.AgentID, FullName: name}
			byAgent[f.AgentID] = snap
			order = append(order, f.AgentID)
		}

		switch f.Status {
		case domain.StatusQualified:
			snap.Qualified++
		case domain.StatusDisqualified:
			snap.Disqualified++
		case domain.StatusDuplicate:
			snap.Duplicate++
		case domain.StatusCallback:
			snap.Callback++
		default:
			snap.Pending++
		}
		snap.Total++
	}

	out := make([]AgentQuotaSnapshot, 0, len(order))
	for _, id := range order {
		snap := *byAgent[id]
		snap.Score = snap.Qualified - snap.Disqualified
		out = append(out, snap)
	}
	return out
}

// Rank sorts snapshots by descending score and returns exactly LeaderboardSize
// rows, right-padded with placeholder rows when fewer real agents exist.
// Equal scores keep their input order; placeholders never rank.
func Rank(agents []AgentQuotaSnapshot) []AgentQuotaSnapshot {
	ranked := make([]AgentQuotaSnapshot, len(agents))
	copy(ranked, agents)
	for i := range ranked {
		ranked[i].Score = ranked[i].Qualified - ranked[i].Disqualified
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > LeaderboardSize {
		ranked = ranked[:LeaderboardSize]
	}
	for len(ranked) < LeaderboardSize {
		ranked = append(ranked, AgentQuotaSnapshot{FullName: placeholderName})
	}
	return ranked
}
