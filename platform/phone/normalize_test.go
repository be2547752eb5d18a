package phone

import "testing"

func TestNormalizeE164Region(t *testing.T) {
	tests := []struct {
		input  string
		region string
		want   string
	}{
		{"(212) 555-0175", "US", "+12125550175"},
		{"+31 6 12345678", "US", "+31612345678"},
		{"06 1234 5678", "NL", "+31612345678"},
		{"  +12125550175  ", "US", "+12125550175"},
		{"not a number", "US", "not a number"},
		{"", "US", ""},
	}

	for _, tt := range tests {
		if got := NormalizeE164Region(tt.input, tt.region); got != tt.want {
			t.Errorf("NormalizeE164Region(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
		}
	}
}

func TestMatchKeyCollapsesFormatting(t *testing.T) {
	a := MatchKey("(212) 555-0175", "US")
	b := MatchKey("212.555.0175", "US")
	if a != b {
		t.Errorf("formatting variants produced different keys: %q vs %q", a, b)
	}
	if a != "+12125550175" {
		t.Errorf("key = %q, want E.164 form", a)
	}
}

func TestMatchKeyInvalidNumberFallsBackToDigits(t *testing.T) {
	// 555-0100 without an area code does not parse as a valid US number.
	if got := MatchKey("555-0100", "US"); got != "5550100" {
		t.Errorf("key = %q, want bare digits fallback", got)
	}
}
