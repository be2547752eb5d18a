package transport

import (
	"time"

	"qc_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs

type CreateLeadRequest struct {
	FirstName  string     `json:"firstName" validate:"required,min=1,max=100"`
	LastName   string     `json:"lastName" validate:"required,min=1,max=100"`
	Phone      string     `json:"phone" validate:"required,min=5,max=20"`
	Email      string     `json:"email,omitempty" validate:"omitempty,email"`
	Address    string     `json:"address" validate:"required,min=1,max=300"`
	CampaignID uuid.UUID  `json:"campaignId" validate:"required"`
	AgentID    uuid.UUID  `json:"agentId" validate:"required"`
	TeamID     *uuid.UUID `json:"teamId,omitempty"`
}

// DispositionRequest is the ephemeral value object consumed by one apply call.
// The evidence blob travels alongside as a multipart file part, not in JSON.
type DispositionRequest struct {
	Disposition domain.Disposition `json:"disposition" validate:"required,oneof=Qualified Disqualified Duplicate Callback Override_Qualified"`
	Comment     string             `json:"comment,omitempty" validate:"max=2000"`
}

type ListPendingRequest struct {
	CampaignID *uuid.UUID `form:"campaignId"`
	Page       int        `form:"page" validate:"min=0"`
	PageSize   int        `form:"pageSize" validate:"min=0,max=200"`
}

// Response DTOs

type LeadResponse struct {
	ID                uuid.UUID     `json:"id"`
	SerialNumber      int64         `json:"serialNumber"`
	FirstName         string        `json:"firstName"`
	LastName          string        `json:"lastName"`
	Phone             string        `json:"phone"`
	Email             *string       `json:"email,omitempty"`
	Address           string        `json:"address"`
	Status            domain.Status `json:"status"`
	OverrideQualified bool          `json:"overrideQualified"`
	OverrideReason    *string       `json:"overrideReason,omitempty"`
	QCComment         *string       `json:"qcComment,omitempty"`
	CampaignID        uuid.UUID     `json:"campaignId"`
	AgentID           uuid.UUID     `json:"agentId"`
	TeamID            *uuid.UUID    `json:"teamId,omitempty"`
	QCReviewerID      *uuid.UUID    `json:"qcReviewerId,omitempty"`
	RecordingURL      *string       `json:"recordingUrl,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	DisposedAt        *time.Time    `json:"disposedAt,omitempty"`
}

// PendingLeadResponse is a queue row; HasDuplicate is the best-effort warning
// glyph annotation, never a blocker.
type PendingLeadResponse struct {
	LeadResponse
	HasDuplicate bool `json:"hasDuplicate"`
}

type PendingQueueResponse struct {
	Items      []PendingLeadResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

type DuplicateMatchResponse struct {
	LeadID        uuid.UUID     `json:"leadId"`
	SerialNumber  int64         `json:"serialNumber"`
	HomeownerName string        `json:"homeownerName"`
	MatchType     string        `json:"matchType"`
	Status        domain.Status `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type DuplicateCheckResponse struct {
	IsDuplicate bool                     `json:"isDuplicate"`
	Matches     []DuplicateMatchResponse `json:"matches"`
}

// DispositionResponse carries the terminal outcome plus a separate warnings
// channel for non-fatal side-operation failures (e.g. evidence upload).
type DispositionResponse struct {
	Lead     LeadResponse `json:"lead"`
	Message  string       `json:"message"`
	Warnings []string     `json:"warnings,omitempty"`
}
