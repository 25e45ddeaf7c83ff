package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/matchboard/internal/application"
)

func newApp(jobID, candidateID string, status application.Status, submittedAt time.Time) *application.Application {
	return &application.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      status,
		History: []application.HistoryEntry{
			{Status: application.StatusSubmitted, At: submittedAt, ActorID: candidateID},
		},
		SubmittedAt: submittedAt,
		UpdatedAt:   submittedAt,
	}
}

func TestMemoryFindPrefersLiveRecord(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	withdrawn := newApp("job-1", "cand-1", application.StatusWithdrawn, base)
	if _, err := store.Save(ctx, withdrawn); err != nil {
		t.Fatalf("saving withdrawn record: %v", err)
	}

	live := newApp("job-1", "cand-1", application.StatusSubmitted, base.Add(time.Hour))
	if _, err := store.Save(ctx, live); err != nil {
		t.Fatalf("saving live record: %v", err)
	}

	found, err := store.Find(ctx, "job-1", "cand-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.ID != live.ID {
		t.Fatalf("expected the live record, got %+v", found)
	}
}

func TestMemoryUniquenessUnderConcurrency(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()
	now := time.Now()

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = store.Save(ctx, newApp("job-1", "cand-1", application.StatusSubmitted, now))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, application.ErrDuplicateApplication):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("expected exactly one save to succeed, got %d", succeeded)
	}
}

func TestMemoryUpdateExistingRecord(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	app := newApp("job-1", "cand-1", application.StatusSubmitted, time.Now())
	saved, err := store.Save(ctx, app)
	if err != nil {
		t.Fatalf("saving: %v", err)
	}

	saved.Status = application.StatusUnderReview
	if _, err := store.Save(ctx, saved); err != nil {
		t.Fatalf("updating the same record must not trip uniqueness: %v", err)
	}

	found, err := store.FindByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Status != application.StatusUnderReview {
		t.Fatalf("expected update to persist, got %s", found.Status)
	}
}

func TestMemoryListPagination(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		app := newApp(fmt.Sprintf("job-%d", i), "cand-1", application.StatusSubmitted, base.Add(time.Duration(i)*time.Minute))
		if _, err := store.Save(ctx, app); err != nil {
			t.Fatalf("saving: %v", err)
		}
	}

	var collected []*application.Application
	page := Page{Limit: 2}
	pages := 0
	for {
		apps, next, err := store.ListByCandidate(ctx, "cand-1", page)
		if err != nil {
			t.Fatalf("listing: %v", err)
		}
		collected = append(collected, apps...)
		pages++
		if next == "" {
			break
		}
		page.Cursor = next
	}

	if len(collected) != 5 {
		t.Fatalf("expected 5 records, got %d", len(collected))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
	for i := 1; i < len(collected); i++ {
		if collected[i].SubmittedAt.Before(collected[i-1].SubmittedAt) {
			t.Fatalf("expected submission order")
		}
	}
}

func TestMemoryStorageUnavailableOnCancelledContext(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Find(ctx, "job-1", "cand-1")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
