package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"qc_portal_backend/internal/events"
	"qc_portal_backend/internal/leads/domain"
	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/internal/leads/transport"
	"qc_portal_backend/platform/apperr"
	"qc_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Evidence is a call recording supplied with a disposition request.
type Evidence struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// EvidenceStore uploads and serves call recordings. Implemented by the
// storage adapter.
type EvidenceStore interface {
	UploadRecording(ctx context.Context, leadID uuid.UUID, fileName, contentType string, r io.Reader, size int64) (string, error)
	DownloadURL(ctx context.Context, fileKey string) (string, error)
}

// controllerRepository is the repository slice the controller needs.
type controllerRepository interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, params repository.UpdateStatusParams) (repository.Lead, error)
}

const (
	msgAlreadyInProgress = "a disposition for this lead is already in progress"
	msgAlreadyDisposed   = "lead has already been dispositioned"
	msgCommitFailed      = "failed to commit disposition"
	msgCommitTimedOut    = "disposition commit timed out"
	msgEvidenceWarning   = "call recording upload failed; disposition committed without evidence"
)

// successMessages are the per-disposition terminal messages. Override carries
// distinct wording from a plain disqualification.
var successMessages = map[domain.Disposition]string{
	domain.DispositionQualified:         "Lead marked as Qualified",
	domain.DispositionDisqualified:      "Lead marked as Disqualified",
	domain.DispositionDuplicate:         "Lead marked as Duplicate",
	domain.DispositionCallback:          "Lead scheduled for Callback",
	domain.DispositionOverrideQualified: "Lead disqualified with client-delivery override",
}

// Controller orchestrates one disposition action end-to-end: guard, policy,
// best-effort evidence upload, commit, event publication.
type Controller struct {
	repo          controllerRepository
	evidence      EvidenceStore
	bus           events.Bus
	cache         *QueueCache
	log           *logger.Logger
	commitTimeout time.Duration

	// inFlight tracks leads with an outstanding apply call.
	inFlight map[uuid.UUID]bool
	mu       sync.Mutex
}

func NewController(repo controllerRepository, evidence EvidenceStore, bus events.Bus, cache *QueueCache, commitTimeout time.Duration, log *logger.Logger) *Controller {
	if commitTimeout <= 0 {
		commitTimeout = 10 * time.Second
	}
	return &Controller{
		repo:          repo,
		evidence:      evidence,
		bus:           bus,
		cache:         cache,
		log:           log,
		commitTimeout: commitTimeout,
		inFlight:      make(map[uuid.UUID]bool),
	}
}

// begin marks the lead as having an in-flight disposition. Returns false when
// one is already outstanding.
func (c *Controller) begin(leadID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[leadID] {
		return false
	}
	c.inFlight[leadID] = true
	return true
}

func (c *Controller) finish(leadID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, leadID)
}

// Apply runs one full disposition action. Steps are strictly sequential:
// validate, upload evidence (non-fatal), commit, publish. A validation or
// concurrency failure happens before any network call. On commit failure the
// lead stays Pending and no local state is retained, so a retry with the same
// arguments is safe.
func (c *Controller) Apply(ctx context.Context, leadID, reviewerID uuid.UUID, req transport.DispositionRequest, ev *Evidence) (transport.DispositionResponse, error) {
	if !c.begin(leadID) {
		return transport.DispositionResponse{}, apperr.Conflict(msgAlreadyInProgress)
	}
	defer c.finish(leadID)

	decision, err := domain.Decide(req.Disposition, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingComment):
			return transport.DispositionResponse{}, apperr.Validation(err.Error())
		case errors.Is(err, domain.ErrUnknownDisposition):
			return transport.DispositionResponse{}, apperr.BadRequest(err.Error())
		default:
			return transport.DispositionResponse{}, err
		}
	}

	var warnings []string
	var recordingURL *string
	if decision.EvidenceEligible && ev != nil && c.evidence != nil {
		url, upErr := c.evidence.UploadRecording(ctx, leadID, ev.FileName, ev.ContentType, ev.Reader, ev.Size)
		if upErr != nil {
			c.log.EvidenceUploadFailed(leadID.String(), upErr)
			warnings = append(warnings, msgEvidenceWarning)
		} else {
			recordingURL = &url
		}
	}

	params := repository.UpdateStatusParams{
		Status:            decision.Status,
		QCComment:         decision.Comment,
		OverrideQualified: decision.OverrideQualified,
		QCReviewerID:      reviewerID,
		RecordingURL:      recordingURL,
	}
	if decision.OverrideQualified {
		reason := decision.OverrideReason
		params.OverrideReason = &reason
	}

	commitCtx, cancel := context.WithTimeout(ctx, c.commitTimeout)
	defer cancel()

	lead, err := c.repo.UpdateStatus(commitCtx, leadID, params)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotPending):
			return transport.DispositionResponse{}, apperr.Conflict(msgAlreadyDisposed)
		case errors.Is(err, repository.ErrNotFound):
			return transport.DispositionResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, context.DeadlineExceeded):
			return transport.DispositionResponse{}, apperr.Wrap(apperr.KindUnavailable, msgCommitTimedOut, err)
		default:
			return transport.DispositionResponse{}, apperr.Wrap(apperr.KindInternal, msgCommitFailed, err)
		}
	}

	c.log.Disposition(lead.ID.String(), string(lead.Status), lead.OverrideQualified, reviewerID.String())

	// One lead's disposition can flip other leads' duplicate state; drop the
	// whole annotation cache rather than patching it.
	c.cache.Invalidate(ctx)

	// The caller reloads the queue as soon as this returns, so subscriber
	// reactions (rescan enqueue, cache priming) must land first. Handler
	// failures downgrade to a warning; the disposition itself is committed.
	if c.bus != nil {
		ev := events.LeadDisposed{
			BaseEvent:         events.NewBaseEvent(),
			LeadID:            lead.ID,
			CampaignID:        lead.CampaignID,
			Status:            string(lead.Status),
			OverrideQualified: lead.OverrideQualified,
			ReviewerID:        reviewerID,
		}
		if pubErr := c.bus.PublishSync(ctx, ev); pubErr != nil {
			c.log.Warn("disposition event handler failed", "error", pubErr, "leadId", lead.ID.String())
		}
	}

	return transport.DispositionResponse{
		Lead:     toLeadResponse(lead),
		Message:  successMessages[req.Disposition],
		Warnings: warnings,
	}, nil
}
