package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateCampaignRequest struct {
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	ClientName   string     `json:"clientName" validate:"required,min=1,max=200"`
	LeadsTarget  int        `json:"leadsTarget" validate:"min=0"`
	Timezone     string     `json:"timezone" validate:"required"`
	TeamID       *uuid.UUID `json:"teamId,omitempty"`
	QCReviewerID *uuid.UUID `json:"qcReviewerId,omitempty"`
}

type UpdateCampaignRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ClientName   *string    `json:"clientName,omitempty" validate:"omitempty,min=1,max=200"`
	LeadsTarget  *int       `json:"leadsTarget,omitempty" validate:"omitempty,min=0"`
	Timezone     *string    `json:"timezone,omitempty"`
	Active       *bool      `json:"active,omitempty"`
	TeamID       *uuid.UUID `json:"teamId,omitempty"`
	QCReviewerID *uuid.UUID `json:"qcReviewerId,omitempty"`
}

type CampaignResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	ClientName   string     `json:"clientName"`
	LeadsTarget  int        `json:"leadsTarget"`
	Timezone     string     `json:"timezone"`
	Active       bool       `json:"active"`
	TeamID       *uuid.UUID `json:"teamId,omitempty"`
	QCReviewerID *uuid.UUID `json:"qcReviewerId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
