package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/board"
	"github.com/spigell/matchboard/internal/logger"
)

// ErrApplicationNotFound is returned when a transition targets an id the
// store has never seen.
var ErrApplicationNotFound = errors.New("application not found")

// Store is the slice of the ledger the machine writes through. Save must be
// atomic with respect to the pair-uniqueness invariant. Find and FindByID
// return (nil, nil) when no record exists.
type Store interface {
	Find(ctx context.Context, jobID, candidateID string) (*Application, error)
	FindByID(ctx context.Context, id string) (*Application, error)
	Save(ctx context.Context, app *Application) (*Application, error)
}

// Catalog resolves postings at submission time. JobByID returns (nil, nil)
// for an unknown id.
type Catalog interface {
	JobByID(ctx context.Context, id string) (*board.JobPosting, error)
}

// Machine owns the lifecycle of Application records: it validates actor
// permissions and transition legality, and serializes all writers touching
// the same (job, candidate) pair.
type Machine struct {
	store   Store
	catalog Catalog
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*pairLock
}

// pairLock serializes writers for one (job, candidate) pair. The refcount
// lets lockPair drop the map entry once nobody holds or waits on it, so the
// lock table does not grow with every pair ever touched.
type pairLock struct {
	mu   sync.Mutex
	refs int
}

// NewMachine builds a Machine. The logger may be nil.
func NewMachine(store Store, catalog Catalog, log *zap.Logger) *Machine {
	return &Machine{
		store:   store,
		catalog: catalog,
		logger:  log,
		now:     time.Now,
		locks:   make(map[string]*pairLock),
	}
}

// Submit creates a new application in SUBMITTED for an open posting. It fails
// with ErrDuplicateApplication when a non-withdrawn record already exists for
// the pair and with ErrJobClosed when the posting does not accept
// applications.
func (m *Machine) Submit(ctx context.Context, jobID, candidateID, resumeRef, coverLetter string) (*Application, error) {
	job, err := m.catalog.JobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("resolving job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, &JobClosedError{JobID: jobID, Reason: "posting not found in catalog"}
	}

	now := m.now().UTC()
	if !job.OpenAt(now) {
		reason := "posting is inactive"
		if job.Active {
			reason = "application deadline has passed"
		}
		return nil, &JobClosedError{JobID: jobID, Reason: reason}
	}

	unlock := m.lockPair(jobID, candidateID)
	defer unlock()

	existing, err := m.store.Find(ctx, jobID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("checking existing application: %w", err)
	}
	if existing != nil && existing.Status != StatusWithdrawn {
		return nil, &DuplicateApplicationError{
			JobID:       jobID,
			CandidateID: candidateID,
			Existing:    existing.Status,
		}
	}

	app := &Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		ResumeRef:   resumeRef,
		CoverLetter: coverLetter,
		Status:      StatusSubmitted,
		History: []HistoryEntry{
			{Status: StatusSubmitted, At: now, ActorID: candidateID},
		},
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	saved, err := m.store.Save(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("saving application: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("application submitted",
			zap.String("application_id", saved.ID),
			zap.String("job_id", jobID),
			zap.String("candidate_id", candidateID),
		)
	}

	return saved, nil
}

// Transition applies a state change requested by an actor. On any rule
// violation it fails with ErrInvalidTransition and leaves the record
// untouched.
func (m *Machine) Transition(ctx context.Context, applicationID, actorID string, role Role, target Status, notes string) (*Application, error) {
	probe, err := m.store.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("loading application %s: %w", applicationID, err)
	}
	if probe == nil {
		return nil, fmt.Errorf("application %s: %w", applicationID, ErrApplicationNotFound)
	}

	unlock := m.lockPair(probe.JobID, probe.CandidateID)
	defer unlock()

	// Re-read under the pair lock: the record may have moved since the probe.
	app, err := m.store.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("loading application %s: %w", applicationID, err)
	}
	if app == nil {
		return nil, fmt.Errorf("application %s: %w", applicationID, ErrApplicationNotFound)
	}

	if reason := transitionViolation(app, actorID, role, target); reason != "" {
		return nil, &InvalidTransitionError{
			ApplicationID: applicationID,
			ActorID:       actorID,
			From:          app.Status,
			To:            target,
			Reason:        reason,
		}
	}

	now := m.now().UTC()
	from := app.Status
	app.Status = target
	app.History = append(app.History, HistoryEntry{Status: target, At: now, ActorID: actorID})
	if notes != "" {
		app.Notes = notes
	}
	app.UpdatedAt = now

	saved, err := m.store.Save(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("saving application %s: %w", applicationID, err)
	}

	if m.logger != nil {
		m.logger.Info("application transition",
			zap.String("application_id", applicationID),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
			zap.String("actor_id", actorID),
			zap.String("notes", logger.TruncateForLog(notes, 120)),
		)
	}

	return saved, nil
}

// transitionViolation returns a non-empty reason when the requested change is
// illegal for the current state and actor.
func transitionViolation(app *Application, actorID string, role Role, target Status) string {
	if !target.Valid() {
		return "unknown target status"
	}
	if app.Status.Terminal() {
		return fmt.Sprintf("no transitions permitted out of terminal state %s", app.Status)
	}

	switch role {
	case RoleCandidate:
		if target != StatusWithdrawn {
			return "candidates may only withdraw their own application"
		}
		if actorID != app.CandidateID {
			return "only the owning candidate may withdraw"
		}
		return ""
	case RoleAdministrator:
		if target == StatusWithdrawn {
			return "only the owning candidate may withdraw"
		}
		// Forward moves may skip intermediate states; backward and
		// same-state moves are rejected.
		if forwardRank[target] <= forwardRank[app.Status] {
			return fmt.Sprintf("%s to %s is not a forward move", app.Status, target)
		}
		return ""
	default:
		return fmt.Sprintf("unknown actor role %q", role)
	}
}

func (m *Machine) lockPair(jobID, candidateID string) func() {
	key := jobID + "\x00" + candidateID

	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &pairLock{}
		m.locks[key] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}
