package domain

import (
	"errors"
	"testing"
)

func TestDecideCommentRequired(t *testing.T) {
	for _, d := range []Disposition{DispositionDisqualified, DispositionCallback, DispositionOverrideQualified} {
		if _, err := Decide(d, ""); !errors.Is(err, ErrMissingComment) {
			t.Errorf("Decide(%s, empty) error = %v, want ErrMissingComment", d, err)
		}
		if _, err := Decide(d, "   \t"); !errors.Is(err, ErrMissingComment) {
			t.Errorf("Decide(%s, whitespace) error = %v, want ErrMissingComment", d, err)
		}
	}
}

func TestDecideAutoComment(t *testing.T) {
	cases := []struct {
		requested Disposition
		want      string
	}{
		{DispositionQualified, "Marked as Qualified by QC"},
		{DispositionDuplicate, "Marked as Duplicate by QC"},
	}

	for _, tc := range cases {
		decision, err := Decide(tc.requested, "")
		if err != nil {
			t.Fatalf("Decide(%s, empty) unexpected error: %v", tc.requested, err)
		}
		if decision.Comment != tc.want {
			t.Errorf("Decide(%s) comment = %q, want %q", tc.requested, decision.Comment, tc.want)
		}
		if decision.Status != Status(tc.requested) {
			t.Errorf("Decide(%s) status = %s, want %s", tc.requested, decision.Status, tc.requested)
		}
	}
}

func TestDecideOverrideQualified(t *testing.T) {
	decision, err := Decide(DispositionOverrideQualified, "agent misquoted sqft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Status != StatusDisqualified {
		t.Errorf("status = %s, want Disqualified", decision.Status)
	}
	if !decision.OverrideQualified {
		t.Error("overrideQualified = false, want true")
	}
	if decision.OverrideReason != "agent misquoted sqft" {
		t.Errorf("overrideReason = %q", decision.OverrideReason)
	}
	if !decision.EvidenceEligible {
		t.Error("evidenceEligible = false, want true")
	}
}

func TestDecideEvidenceEligibility(t *testing.T) {
	cases := map[Disposition]bool{
		DispositionQualified:         true,
		DispositionOverrideQualified: true,
		DispositionDisqualified:      false,
		DispositionDuplicate:         false,
		DispositionCallback:          false,
	}

	for d, want := range cases {
		comment := "reviewed"
		decision, err := Decide(d, comment)
		if err != nil {
			t.Fatalf("Decide(%s) unexpected error: %v", d, err)
		}
		if decision.EvidenceEligible != want {
			t.Errorf("Decide(%s) evidenceEligible = %v, want %v", d, decision.EvidenceEligible, want)
		}
	}
}

func TestDecideUnknownDisposition(t *testing.T) {
	if _, err := Decide(Disposition("Approved"), "x"); !errors.Is(err, ErrUnknownDisposition) {
		t.Errorf("error = %v, want ErrUnknownDisposition", err)
	}
}

func TestValidateState(t *testing.T) {
	if reason := ValidateState(StatusDisqualified, true); reason != "" {
		t.Errorf("override on Disqualified flagged invalid: %s", reason)
	}
	if reason := ValidateState(StatusQualified, true); reason == "" {
		t.Error("override on Qualified not flagged")
	}
	if reason := ValidateState(StatusPending, false); reason != "" {
		t.Errorf("plain pending flagged invalid: %s", reason)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(StatusPending) {
		t.Error("Pending must not be terminal")
	}
	for _, s := range []Status{StatusQualified, StatusDisqualified, StatusDuplicate, StatusCallback} {
		if !IsTerminal(s) {
			t.Errorf("%s must be terminal", s)
		}
	}
}
