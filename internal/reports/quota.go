// Package reports derives quota progress and agent leaderboard figures from
// lead dispositions. Aggregation is pure and recomputed on every load; nothing
// in this package mutates lead or campaign state.
package reports

import (
	"math"
	"time"

	"qc_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// LeadFact is the projection of a lead the aggregator consumes.
type LeadFact struct {
	LeadID            uuid.UUID
	CampaignID        uuid.UUID
	AgentID           uuid.UUID
	Status            domain.Status
	OverrideQualified bool
	CreatedAt         time.Time
}

// CampaignInfo is the projection of a campaign the aggregator consumes.
// Timezone must be a resolvable IANA zone name; campaign CRUD validates it
// at write time.
type CampaignInfo struct {
	ID          uuid.UUID
	Name        string
	LeadsTarget int
	Timezone    string
	Active      bool
}

// Buckets partitions a campaign window's leads by disposition outcome.
// Achieved counts Qualified plus override-qualified leads; Disqualified
// excludes overrides, so the two never double-count.
type Buckets struct {
	Achieved     int `json:"achieved"`
	Disqualified int `json:"disqualified"`
	Duplicate    int `json:"duplicate"`
	Pending      int `json:"pending"`
	Callback     int `json:"callback"`
	Total        int `json:"total"`
}

func (b *Buckets) add(f LeadFact) {
	switch {
	case f.Status == domain.StatusQualified, f.OverrideQualified:
		b.Achieved++
	case f.Status == domain.StatusDisqualified:
		b.Disqualified++
	case f.Status == domain.StatusDuplicate:
		b.Duplicate++
	case f.Status == domain.StatusCallback:
		b.Callback++
	default:
		b.Pending++
	}
	b.Total++
}

func (b *Buckets) merge(other Buckets) {
	b.Achieved += other.Achieved
	b.Disqualified += other.Disqualified
	b.Duplicate += other.Duplicate
	b.Pending += other.Pending
	b.Callback += other.Callback
	b.Total += other.Total
}

// CampaignProgress is one campaign's quota figures for a window.
type CampaignProgress struct {
	CampaignID   uuid.UUID `json:"campaignId"`
	CampaignName string    `json:"campaignName"`
	Target       int       `json:"target"`
	Buckets
	Missed        int  `json:"missed"`
	TargetReached bool `json:"targetReached"`
	Progress      int  `json:"progress"`
}

// Aggregator computes window figures. The clock is injectable so day-close
// rules are testable; zero value uses time.Now.
type Aggregator struct {
	Now func() time.Time
}

func (a Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// campaignLocation resolves the campaign's zone, falling back to UTC for a
// name that no longer resolves (a host tzdata downgrade after write).
func campaignLocation(c CampaignInfo) *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// dayBounds returns the campaign-local day window containing ref.
func dayBounds(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ref.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// progressPct is round(100 * achieved / target); a zero target reads 0.
func progressPct(achieved, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(achieved) / float64(target)))
}

// missedFor computes the shortfall for a closed day. An open day always reads
// 0: the quota can still be met.
func missedFor(achieved, target int, dayEnd, now time.Time) int {
	if now.Before(dayEnd) {
		return 0
	}
	if m := target - achieved; m > 0 {
		return m
	}
	return 0
}

// Daily aggregates one campaign-local day per active campaign. ref picks the
// day: each campaign uses the day containing ref in its own timezone, so the
// same instant can fall on different campaign-days.
func (a Aggregator) Daily(leads []LeadFact, campaigns []CampaignInfo, ref time.Time) []CampaignProgress {
	now := a.now()
	out := make([]CampaignProgress, 0, len(campaigns))

	for _, c := range campaigns {
		if !c.Active {
			continue
		}
		loc := campaignLocation(c)
		start, end := dayBounds(ref, loc)

		p := CampaignProgress{CampaignID: c.ID, CampaignName: c.Name, Target: c.LeadsTarget}
		for _, f := range leads {
			if f.CampaignID != c.ID {
				continue
			}
			if f.CreatedAt.Before(start) || !f.CreatedAt.Before(end) {
				continue
			}
			p.add(f)
		}

		p.Missed = missedFor(p.Achieved, c.LeadsTarget, end, now)
		p.TargetReached = p.Achieved >= c.LeadsTarget
		p.Progress = progressPct(p.Achieved, c.LeadsTarget)
		out = append(out, p)
	}
	return out
}

// Monthly aggregates month-to-date per active campaign by summing daily
// buckets day by day, so day-boundary assignment matches the daily report
// exactly. The monthly target is the daily target times the number of
// campaign-local days elapsed, today included. Missed sums over closed days
// only.
func (a Aggregator) Monthly(leads []LeadFact, campaigns []CampaignInfo, ref time.Time) []CampaignProgress {
	now := a.now()
	out := make([]CampaignProgress, 0, len(campaigns))

	for _, c := range campaigns {
		if !c.Active {
			continue
		}
		loc := campaignLocation(c)
		local := ref.In(loc)
		monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		today, _ := dayBounds(ref, loc)

		p := CampaignProgress{CampaignID: c.ID, CampaignName: c.Name}
		days := 0
		for dayStart := monthStart; !dayStart.After(today); dayStart = dayStart.AddDate(0, 0, 1) {
			dayEnd := dayStart.AddDate(0, 0, 1)

			var day Buckets
			for _, f := range leads {
				if f.CampaignID != c.ID {
					continue
				}
				if f.CreatedAt.Before(dayStart) || !f.CreatedAt.Before(dayEnd) {
					continue
				}
				day.add(f)
			}

			p.merge(day)
			p.Missed += missedFor(day.Achieved, c.LeadsTarget, dayEnd, now)
			days++
		}

		p.Target = c.LeadsTarget * days
		p.TargetReached = p.Achieved >= p.Target
		p.Progress = progressPct(p.Achieved, p.Target)
		out = append(out, p)
	}
	return out
}

// RollupSummary is the dashboard aggregate across every active campaign in a
// window.
type RollupSummary struct {
	Buckets
	Target   int `json:"target"`
	Missed   int `json:"missed"`
	Progress int `json:"progress"`
}

// Rollup folds per-campaign progress into one figure. A zero summed target
// yields 0 percent, not an error.
func Rollup(progress []CampaignProgress) RollupSummary {
	var s RollupSummary
	for _, p := range progress {
		s.merge(p.Buckets)
		s.Target += p.Target
		s.Missed += p.Missed
	}
	s.Progress = progressPct(s.Achieved, s.Target)
	return s
}
