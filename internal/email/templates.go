package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"qc_portal_backend/internal/reports"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectQuotaSummary = "Daily quota summary"

type quotaSummaryEmailData struct {
	Title        string
	CampaignName string
	Date         string
	Target       int
	Achieved     int
	Missed       int
	Disqualified int
	Duplicate    int
	Callback     int
	Pending      int
	Progress     int
	Reached      bool
}

func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func quotaSummaryContent(progress reports.CampaignProgress, date string) (string, error) {
	return renderEmailTemplate("quota_summary.html", quotaSummaryEmailData{
		Title:        subjectQuotaSummary,
		CampaignName: progress.CampaignName,
		Date:         date,
		Target:       progress.Target,
		Achieved:     progress.Achieved,
		Missed:       progress.Missed,
		Disqualified: progress.Disqualified,
		Duplicate:    progress.Duplicate,
		Callback:     progress.Callback,
		Pending:      progress.Pending,
		Progress:     progress.Progress,
		Reached:      progress.TargetReached,
	})
}
