package scheduler

import (
	"context"
	"time"

	"qc_portal_backend/internal/reports"
	"qc_portal_backend/platform/logger"
)

// campaignSource is the reports repository slice the sweeper needs.
type campaignSource interface {
	CampaignInfos(ctx context.Context) ([]reports.CampaignInfo, error)
}

// DaySweeper watches campaign timezones and enqueues one day-close task per
// zone when that zone's local date rolls over. Dedupe is in-memory; the
// scheduler runs as a single process.
type DaySweeper struct {
	client    *Client
	campaigns campaignSource
	interval  time.Duration
	log       *logger.Logger

	lastSwept map[string]string // timezone -> last closed local date
}

func NewDaySweeper(client *Client, campaigns campaignSource, interval time.Duration, log *logger.Logger) *DaySweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &DaySweeper{
		client:    client,
		campaigns: campaigns,
		interval:  interval,
		log:       log,
		lastSwept: make(map[string]string),
	}
}

func (s *DaySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Prime without enqueuing so a restart mid-day does not re-close
	// yesterday for every zone.
	s.sweep(ctx, false)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, true)
		}
	}
}

func (s *DaySweeper) sweep(ctx context.Context, enqueue bool) {
	campaigns, err := s.campaigns.CampaignInfos(ctx)
	if err != nil {
		s.log.Error("day sweep campaign load failed", "error", err)
		return
	}

	now := time.Now()
	for _, c := range campaigns {
		if !c.Active {
			continue
		}
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			continue
		}

		closed := now.In(loc).AddDate(0, 0, -1).Format("2006-01-02")
		if s.lastSwept[c.Timezone] == closed {
			continue
		}
		s.lastSwept[c.Timezone] = closed

		if !enqueue {
			continue
		}
		if err := s.client.ScheduleDayClose(ctx, DayClosePayload{Date: closed, Timezone: c.Timezone}, now); err != nil {
			s.log.Error("day close enqueue failed", "error", err, "date", closed, "timezone", c.Timezone)
			continue
		}
		s.log.Info("day close enqueued", "date", closed, "timezone", c.Timezone)
	}
}
