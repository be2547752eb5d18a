// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Disposition is the action a QC reviewer requests for a pending lead.
type Disposition string

const (
	DispositionQualified         Disposition = "Qualified"
	DispositionDisqualified      Disposition = "Disqualified"
	DispositionDuplicate         Disposition = "Duplicate"
	DispositionCallback          Disposition = "Callback"
	DispositionOverrideQualified Disposition = "Override_Qualified"
)

// Status is the persisted disposition state of a lead.
type Status string

const (
	StatusPending      Status = "Pending"
	StatusQualified    Status = "Qualified"
	StatusDisqualified Status = "Disqualified"
	StatusDuplicate    Status = "Duplicate"
	StatusCallback     Status = "Callback"
)

// DefaultOverrideReason is recorded when an override is committed without a comment.
const DefaultOverrideReason = "Override qualified by QC"

var (
	// ErrMissingComment is returned when a disposition that mandates a comment
	// is requested without one.
	ErrMissingComment = errors.New("comment is required for this disposition")
	// ErrUnknownDisposition is returned for a disposition value outside the enum.
	ErrUnknownDisposition = errors.New("unknown disposition")
)

// Decision is the outcome of applying the disposition policy. It describes
// what gets persisted and whether an evidence upload should be attempted.
type Decision struct {
	Status            Status
	Comment           string
	OverrideQualified bool
	OverrideReason    string
	EvidenceEligible  bool
}

// commentRequired lists the dispositions that mandate a reviewer comment.
var commentRequired = map[Disposition]bool{
	DispositionDisqualified:      true,
	DispositionCallback:          true,
	DispositionOverrideQualified: true,
}

// evidenceEligible lists the dispositions that represent a successful outcome
// for the client; only these attempt a call-recording upload.
var evidenceEligible = map[Disposition]bool{
	DispositionQualified:         true,
	DispositionOverrideQualified: true,
}

// CommentRequired reports whether the disposition mandates a comment.
func CommentRequired(d Disposition) bool { return commentRequired[d] }

// EvidenceEligible reports whether an evidence upload should be attempted.
func EvidenceEligible(d Disposition) bool { return evidenceEligible[d] }

// Decide applies the disposition policy. It validates the comment requirement,
// resolves the persisted status and override flags, and fills in the
// auto-generated comment for dispositions where the comment is optional.
// No I/O happens here; callers must not commit when an error is returned.
func Decide(requested Disposition, comment string) (Decision, error) {
	trimmed := strings.TrimSpace(comment)

	switch requested {
	case DispositionQualified, DispositionDisqualified, DispositionDuplicate, DispositionCallback, DispositionOverrideQualified:
	default:
		return Decision{}, ErrUnknownDisposition
	}

	if CommentRequired(requested) && trimmed == "" {
		return Decision{}, ErrMissingComment
	}

	d := Decision{EvidenceEligible: EvidenceEligible(requested)}

	if requested == DispositionOverrideQualified {
		// Disqualified for agent payout purposes, qualified for client delivery.
		d.Status = StatusDisqualified
		d.OverrideQualified = true
		d.OverrideReason = trimmed
		if d.OverrideReason == "" {
			d.OverrideReason = DefaultOverrideReason
		}
		d.Comment = trimmed
		return d, nil
	}

	d.Status = Status(requested)
	d.Comment = trimmed
	if d.Comment == "" {
		d.Comment = fmt.Sprintf("Marked as %s by QC", d.Status)
	}
	return d, nil
}

// IsTerminal reports whether the status admits no further disposition.
// Any status other than Pending is final; a re-review flow would reset the
// lead to Pending before a new disposition can be taken.
func IsTerminal(s Status) bool {
	return s != StatusPending
}

// ValidateState checks that a (status, overrideQualified) pair is not
// contradictory. Returns a non-empty reason string when the combination
// is invalid.
func ValidateState(status Status, overrideQualified bool) string {
	if overrideQualified && status != StatusDisqualified {
		return "override_qualified requires Disqualified status"
	}
	return ""
}
