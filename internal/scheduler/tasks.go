package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDuplicateRescan = "leads.duplicate_rescan"

const TaskDayClose = "reports.day_close"

// DuplicateRescanPayload scopes a rescan to one campaign's pending queue, or
// to all campaigns when CampaignID is empty.
type DuplicateRescanPayload struct {
	CampaignID string `json:"campaignId,omitempty"`
}

// DayClosePayload carries the campaign-local date being closed and the
// timezone whose rollover triggered the sweep. Only campaigns in that zone
// are summarized, so zones closing the same date later are not double-mailed.
type DayClosePayload struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Timezone string `json:"timezone"`
}

func NewDuplicateRescanTask(payload DuplicateRescanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDuplicateRescan, data), nil
}

func ParseDuplicateRescanPayload(task *asynq.Task) (DuplicateRescanPayload, error) {
	var payload DuplicateRescanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DuplicateRescanPayload{}, err
	}
	return payload, nil
}

func NewDayCloseTask(payload DayClosePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDayClose, data), nil
}

func ParseDayClosePayload(task *asynq.Task) (DayClosePayload, error) {
	var payload DayClosePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DayClosePayload{}, err
	}
	return payload, nil
}
