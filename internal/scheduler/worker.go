package scheduler

import (
	"context"
	"fmt"
	"time"

	"qc_portal_backend/internal/email"
	"qc_portal_backend/internal/reports"
	"qc_portal_backend/platform/config"
	"qc_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// duplicateRefresher is the leads service slice the worker needs.
type duplicateRefresher interface {
	RefreshDuplicateSet(ctx context.Context, campaignID *uuid.UUID) error
}

// reportBuilder is the reports service slice the worker needs.
type reportBuilder interface {
	DayCloseSummary(ctx context.Context, day time.Time) (reports.QuotaReport, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	leads      duplicateRefresher
	reports    reportBuilder
	campaigns  campaignSource
	mail       email.Sender
	recipients []string
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads duplicateRefresher, reportsSvc reportBuilder, campaigns campaignSource, mail email.Sender, recipients []string, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		leads:      leads,
		reports:    reportsSvc,
		campaigns:  campaigns,
		mail:       mail,
		recipients: recipients,
		log:        log,
	}

	mux.HandleFunc(TaskDuplicateRescan, w.handleDuplicateRescan)
	mux.HandleFunc(TaskDayClose, w.handleDayClose)

	return w, nil
}

func (w *Worker) handleDuplicateRescan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDuplicateRescanPayload(task)
	if err != nil {
		return err
	}

	var campaignID *uuid.UUID
	if payload.CampaignID != "" {
		id, err := uuid.Parse(payload.CampaignID)
		if err != nil {
			return err
		}
		campaignID = &id
	}

	if err := w.leads.RefreshDuplicateSet(ctx, campaignID); err != nil {
		return err
	}

	w.log.Info("duplicate annotation set refreshed", "campaignId", payload.CampaignID)
	return nil
}

// handleDayClose builds the closed day's quota report and mails each
// campaign's summary to the configured recipients. Delivery failures are
// logged per recipient; the task itself succeeds so a flaky mailbox does not
// requeue the whole sweep.
func (w *Worker) handleDayClose(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDayClosePayload(task)
	if err != nil {
		return err
	}

	day, err := dayCloseRef(payload)
	if err != nil {
		return err
	}

	report, err := w.reports.DayCloseSummary(ctx, day)
	if err != nil {
		return err
	}

	inZone, err := w.campaignsInZone(ctx, payload.Timezone)
	if err != nil {
		return err
	}

	sent := 0
	for _, progress := range report.Daily {
		if payload.Timezone != "" && !inZone[progress.CampaignID] {
			continue
		}
		sent++
		for _, to := range w.recipients {
			if err := w.mail.SendQuotaSummary(ctx, to, progress, payload.Date); err != nil {
				w.log.Error("quota summary email failed", "error", err, "to", to, "campaignId", progress.CampaignID)
			}
		}
	}

	w.log.Info("day close sweep completed", "date", payload.Date, "timezone", payload.Timezone, "campaigns", sent)
	return nil
}

func (w *Worker) campaignsInZone(ctx context.Context, timezone string) (map[uuid.UUID]bool, error) {
	if timezone == "" {
		return nil, nil
	}
	campaigns, err := w.campaigns.CampaignInfos(ctx)
	if err != nil {
		return nil, err
	}
	inZone := make(map[uuid.UUID]bool)
	for _, c := range campaigns {
		if c.Timezone == timezone {
			inZone[c.ID] = true
		}
	}
	return inZone, nil
}

// dayCloseRef resolves the payload date into a reference instant inside that
// campaign-local day. The date names a local day, so it must be parsed in the
// payload's own zone; a UTC parse would land in the previous local day for
// any zone behind UTC. Local noon keeps the instant inside the day across
// DST transitions.
func dayCloseRef(payload DayClosePayload) (time.Time, error) {
	loc := time.UTC
	if payload.Timezone != "" {
		l, err := time.LoadLocation(payload.Timezone)
		if err != nil {
			return time.Time{}, err
		}
		loc = l
	}

	day, err := time.ParseInLocation("2006-01-02", payload.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(12 * time.Hour), nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
