package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"qc_portal_backend/internal/events"
	"qc_portal_backend/internal/leads/domain"
	"qc_portal_backend/internal/leads/repository"
	"qc_portal_backend/internal/leads/transport"
	"qc_portal_backend/platform/apperr"
	"qc_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStatusRepo struct {
	mu      sync.Mutex
	calls   int
	last    repository.UpdateStatusParams
	err     error
	release chan struct{} // when set, UpdateStatus blocks until closed
}

func (f *fakeStatusRepo) UpdateStatus(ctx context.Context, id uuid.UUID, params repository.UpdateStatusParams) (repository.Lead, error) {
	f.mu.Lock()
	f.calls++
	f.last = params
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return repository.Lead{}, ctx.Err()
		}
	}

	if f.err != nil {
		return repository.Lead{}, f.err
	}

	now := time.Now()
	return repository.Lead{
		ID:                id,
		Status:            params.Status,
		OverrideQualified: params.OverrideQualified,
		OverrideReason:    params.OverrideReason,
		QCComment:         &params.QCComment,
		RecordingURL:      params.RecordingURL,
		CreatedAt:         now,
		DisposedAt:        &now,
	}, nil
}

func (f *fakeStatusRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEvidenceStore struct {
	err   error
	calls int
}

func (f *fakeEvidenceStore) UploadRecording(_ context.Context, leadID uuid.UUID, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.local/call-recordings/" + leadID.String() + "/" + fileName, nil
}

func (f *fakeEvidenceStore) DownloadURL(_ context.Context, fileKey string) (string, error) {
	return "https://storage.local/presigned/" + fileKey, nil
}

func newTestController(repo controllerRepository, evidence EvidenceStore) *Controller {
	return NewController(repo, evidence, nil, nil, time.Second, logger.New("test"))
}

func TestApplyMissingCommentNoNetworkCall(t *testing.T) {
	repo := &fakeStatusRepo{}
	ctrl := newTestController(repo, nil)

	for _, d := range []domain.Disposition{domain.DispositionDisqualified, domain.DispositionCallback, domain.DispositionOverrideQualified} {
		_, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{Disposition: d}, nil)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Apply(%s, no comment) error = %v, want validation error", d, err)
		}
	}

	if repo.callCount() != 0 {
		t.Fatalf("repository called %d times for invalid requests, want 0", repo.callCount())
	}
}

func TestApplyAutoCommentCommit(t *testing.T) {
	repo := &fakeStatusRepo{}
	ctrl := newTestController(repo, nil)

	resp, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.last.QCComment != "Marked as Qualified by QC" {
		t.Errorf("committed comment = %q", repo.last.QCComment)
	}
	if resp.Message != "Lead marked as Qualified" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", resp.Warnings)
	}
}

func TestApplyOverrideQualifiedMapping(t *testing.T) {
	repo := &fakeStatusRepo{}
	ctrl := newTestController(repo, nil)

	resp, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{
		Disposition: domain.DispositionOverrideQualified,
		Comment:     "homeowner confirmed on recording",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.last.Status != domain.StatusDisqualified {
		t.Errorf("committed status = %s, want Disqualified", repo.last.Status)
	}
	if !repo.last.OverrideQualified {
		t.Error("committed overrideQualified = false, want true")
	}
	if repo.last.OverrideReason == nil || *repo.last.OverrideReason != "homeowner confirmed on recording" {
		t.Errorf("committed overrideReason = %v", repo.last.OverrideReason)
	}
	if resp.Message == successMessages[domain.DispositionDisqualified] {
		t.Error("override message must be distinct from plain disqualification")
	}
}

func TestApplyEvidenceFailureIsNonFatal(t *testing.T) {
	repo := &fakeStatusRepo{}
	store := &fakeEvidenceStore{err: errors.New("minio unreachable")}
	ctrl := newTestController(repo, store)

	ev := &Evidence{FileName: "call.mp3", ContentType: "audio/mpeg", Size: 4, Reader: strings.NewReader("data")}
	resp, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, ev)
	if err != nil {
		t.Fatalf("commit must succeed despite upload failure, got %v", err)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", resp.Warnings)
	}
	if repo.callCount() != 1 {
		t.Fatalf("commit calls = %d, want 1", repo.callCount())
	}
	if repo.last.RecordingURL != nil {
		t.Error("recording URL must not be committed when the upload failed")
	}
}

func TestApplyEvidenceSkippedWhenIneligible(t *testing.T) {
	repo := &fakeStatusRepo{}
	store := &fakeEvidenceStore{}
	ctrl := newTestController(repo, store)

	ev := &Evidence{FileName: "call.mp3", ContentType: "audio/mpeg", Size: 4, Reader: strings.NewReader("data")}
	_, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{
		Disposition: domain.DispositionDisqualified,
		Comment:     "no interest",
	}, ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls != 0 {
		t.Errorf("upload attempted %d times for ineligible disposition, want 0", store.calls)
	}
}

func TestApplyConcurrentSameLeadRejected(t *testing.T) {
	release := make(chan struct{})
	repo := &fakeStatusRepo{release: release}
	ctrl := newTestController(repo, nil)

	leadID := uuid.New()
	firstDone := make(chan error, 1)
	go func() {
		_, err := ctrl.Apply(context.Background(), leadID, uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil)
		firstDone <- err
	}()

	// Wait for the first call to reach the repository.
	deadline := time.After(time.Second)
	for repo.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first apply never reached the repository")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := ctrl.Apply(context.Background(), leadID, uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second apply error = %v, want conflict", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	// The guard is released once the first call finishes.
	if _, err := ctrl.Apply(context.Background(), leadID, uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil); err != nil {
		t.Fatalf("apply after release failed: %v", err)
	}
}

func TestApplyAlreadyDisposedSurfacesConflict(t *testing.T) {
	repo := &fakeStatusRepo{err: repository.ErrNotPending}
	ctrl := newTestController(repo, nil)

	_, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("error = %v, want conflict for already dispositioned lead", err)
	}
}

// Subscribers must observe the disposed event before Apply returns: the
// caller reloads the queue immediately afterwards, and the rescan reaction
// has to be in flight by then.
func TestApplyDeliversDisposedEventBeforeReturn(t *testing.T) {
	repo := &fakeStatusRepo{}
	bus := events.NewInMemoryBus(logger.New("test"))

	var delivered []events.LeadDisposed
	bus.Subscribe(events.LeadDisposed{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.LeadDisposed); ok {
			delivered = append(delivered, e)
		}
		return nil
	}))

	ctrl := NewController(repo, nil, bus, nil, time.Second, logger.New("test"))
	leadID := uuid.New()
	reviewerID := uuid.New()

	_, err := ctrl.Apply(context.Background(), leadID, reviewerID, transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(delivered) != 1 {
		t.Fatalf("delivered events = %d, want 1 before apply returned", len(delivered))
	}
	if delivered[0].LeadID != leadID || delivered[0].Status != string(domain.StatusQualified) {
		t.Fatalf("event = %+v, want lead %s with status Qualified", delivered[0], leadID)
	}
}

// A failing subscriber downgrades to a warning; the committed disposition is
// still reported as a success.
func TestApplySubscriberFailureDoesNotFailDisposition(t *testing.T) {
	repo := &fakeStatusRepo{}
	bus := events.NewInMemoryBus(logger.New("test"))
	bus.Subscribe(events.LeadDisposed{}.EventName(), events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("enqueue refused")
	}))

	ctrl := NewController(repo, nil, bus, nil, time.Second, logger.New("test"))
	resp, err := ctrl.Apply(context.Background(), uuid.New(), uuid.New(), transport.DispositionRequest{Disposition: domain.DispositionQualified}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Lead.Status != domain.StatusQualified {
		t.Fatalf("status = %s, want Qualified", resp.Lead.Status)
	}
}
