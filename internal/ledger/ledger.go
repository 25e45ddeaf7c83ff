package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/matchboard/internal/application"
)

// ErrStorageUnavailable marks collaborator timeouts and failures. Callers are
// expected to retry with backoff; the ledger itself has no retry loop.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageUnavailableError wraps an underlying storage failure with the
// operation that hit it.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("%s: storage unavailable: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// Page requests a slice of a listing. A zero Limit falls back to the default;
// Cursor is the opaque token returned by the previous call.
type Page struct {
	Limit  int
	Cursor string
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func (p Page) limit() int {
	switch {
	case p.Limit <= 0:
		return defaultPageLimit
	case p.Limit > maxPageLimit:
		return maxPageLimit
	default:
		return p.Limit
	}
}

// Ledger is the persistence abstraction application records are written
// through. Save is atomic with respect to the pair-uniqueness invariant: no
// two concurrent submissions for the same (job, candidate) pair both succeed.
// Listings return records in submission order with an opaque next-page
// cursor, empty when the listing is exhausted.
type Ledger interface {
	application.Store
	ListByCandidate(ctx context.Context, candidateID string, page Page) ([]*application.Application, string, error)
	ListByJob(ctx context.Context, jobID string, page Page) ([]*application.Application, string, error)
}
