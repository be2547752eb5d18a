package reports

import (
	"context"
	"time"

	"qc_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// dataSource is the repository slice the service needs.
type dataSource interface {
	LeadFacts(ctx context.Context, start, end time.Time) ([]LeadFact, error)
	CampaignInfos(ctx context.Context) ([]CampaignInfo, error)
	AgentNames(ctx context.Context) (map[uuid.UUID]string, error)
}

// QuotaReport is the full quota dashboard payload for a reference date.
type QuotaReport struct {
	Date    string             `json:"date"`
	Daily   []CampaignProgress `json:"daily"`
	Monthly []CampaignProgress `json:"monthly"`
	Rollup  RollupSummary      `json:"rollup"`
}

// LeaderboardReport is the ranked agent board for a window.
type LeaderboardReport struct {
	From  string               `json:"from"`
	To    string               `json:"to"`
	Board []AgentQuotaSnapshot `json:"board"`
}

// Service computes report payloads on demand.
type Service struct {
	repo dataSource
	agg  Aggregator
	log  *logger.Logger
}

func NewService(repo dataSource, log *logger.Logger) *Service {
	return &Service{repo: repo, agg: Aggregator{}, log: log}
}

// factWindow is the widest lead window any campaign timezone can need for a
// month-to-date report anchored at ref. A day of slack on each side covers
// every UTC offset.
func factWindow(ref time.Time) (time.Time, time.Time) {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return monthStart.AddDate(0, 0, -1), ref.AddDate(0, 0, 1)
}

// Quota computes daily and monthly per-campaign progress plus the dashboard
// roll-up for the reference date.
func (s *Service) Quota(ctx context.Context, ref time.Time) (QuotaReport, error) {
	campaigns, err := s.repo.CampaignInfos(ctx)
	if err != nil {
		return QuotaReport{}, err
	}

	start, end := factWindow(ref)
	facts, err := s.repo.LeadFacts(ctx, start, end)
	if err != nil {
		return QuotaReport{}, err
	}

	daily := s.agg.Daily(facts, campaigns, ref)
	monthly := s.agg.Monthly(facts, campaigns, ref)

	return QuotaReport{
		Date:    ref.Format("2006-01-02"),
		Daily:   daily,
		Monthly: monthly,
		Rollup:  Rollup(daily),
	}, nil
}

// Leaderboard ranks agents over [from, to).
func (s *Service) Leaderboard(ctx context.Context, from, to time.Time) (LeaderboardReport, error) {
	facts, err := s.repo.LeadFacts(ctx, from, to)
	if err != nil {
		return LeaderboardReport{}, err
	}

	names, err := s.repo.AgentNames(ctx)
	if err != nil {
		return LeaderboardReport{}, err
	}

	return LeaderboardReport{
		From:  from.Format("2006-01-02"),
		To:    to.Format("2006-01-02"),
		Board: Rank(SnapshotAgents(facts, names)),
	}, nil
}

// DayCloseSummary builds the quota report emailed when a campaign day closes.
// The scheduler calls this once per sweep with the just-closed day.
func (s *Service) DayCloseSummary(ctx context.Context, day time.Time) (QuotaReport, error) {
	return s.Quota(ctx, day)
}
