// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"qc_portal_backend/platform/events"
	"qc_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *events.InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pending queue.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	CampaignID uuid.UUID `json:"campaignId"`
	Phone      string    `json:"phone"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadDisposed is published when a QC reviewer commits a disposition.
// The pending queue and its duplicate annotations are stale after this event.
type LeadDisposed struct {
	BaseEvent
	LeadID            uuid.UUID `json:"leadId"`
	CampaignID        uuid.UUID `json:"campaignId"`
	Status            string    `json:"status"`
	OverrideQualified bool      `json:"overrideQualified"`
	ReviewerID        uuid.UUID `json:"reviewerId"`
}

func (e LeadDisposed) EventName() string { return "leads.disposed" }
