package application

import "testing"

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	terminal := map[Status]bool{
		StatusOffered:   true,
		StatusRejected:  true,
		StatusWithdrawn: true,
	}

	for _, s := range Statuses() {
		if s.Terminal() != terminal[s] {
			t.Fatalf("%s: expected terminal=%v", s, terminal[s])
		}
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseStatus(" under_review ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusUnderReview {
		t.Fatalf("expected UNDER_REVIEW, got %s", status)
	}

	if _, err := ParseStatus("ARCHIVED"); err == nil {
		t.Fatalf("expected an error for an unknown status")
	}
}
