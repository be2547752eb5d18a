// Package email delivers quota summary notifications.
package email

import (
	"context"

	"qc_portal_backend/internal/reports"
)

// Sender delivers report emails.
type Sender interface {
	// SendQuotaSummary delivers the day-close quota summary for one campaign.
	SendQuotaSummary(ctx context.Context, toEmail string, progress reports.CampaignProgress, date string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendQuotaSummary(context.Context, string, reports.CampaignProgress, string) error {
	return nil
}
