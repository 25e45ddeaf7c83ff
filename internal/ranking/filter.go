package ranking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/matchboard/internal/application"
	"github.com/spigell/matchboard/internal/board"
	"github.com/spigell/matchboard/internal/ledger"
)

// Lister is the slice of the ledger the ranker reads from.
type Lister interface {
	ListByCandidate(ctx context.Context, candidateID string, page ledger.Page) ([]*application.Application, string, error)
}

// Filter represents a single exclusion step applied to the job set before
// scoring.
type Filter interface {
	Name() string
	Apply(ctx context.Context, deps Deps, jobs *board.Jobs) (*board.Jobs, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Lister    Lister
	Logger    *zap.Logger
	Candidate *board.CandidateProfile
	Now       time.Time
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// runFilters executes the supplied filters sequentially.
func runFilters(ctx context.Context, deps Deps, steps []Filter, jobs *board.Jobs) (*board.Jobs, error) {
	for _, step := range steps {
		next, info, err := step.Apply(ctx, deps, jobs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		jobs = next
	}
	return jobs, nil
}

type openJobsFilter struct{}

// NewOpenJobs creates a filter that removes inactive and past-deadline
// postings.
func NewOpenJobs() Filter {
	return &openJobsFilter{}
}

func (f *openJobsFilter) Name() string { return "open_jobs" }

func (f *openJobsFilter) Apply(_ context.Context, deps Deps, jobs *board.Jobs) (*board.Jobs, Step, error) {
	initial := jobs.Len()
	excluded := jobs.ExcludeClosed(deps.Now)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding closed postings",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}
	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

type appliedHistoryFilter struct{}

// NewAppliedHistory creates a filter that removes postings the candidate
// already holds a non-withdrawn application for.
func NewAppliedHistory() Filter {
	return &appliedHistoryFilter{}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Apply(ctx context.Context, deps Deps, jobs *board.Jobs) (*board.Jobs, Step, error) {
	initial := jobs.Len()
	if deps.Lister == nil {
		return jobs, Step{}, fmt.Errorf("application lister is required")
	}

	ids, err := activeJobIDs(ctx, deps.Lister, deps.Candidate.ID)
	if err != nil {
		return jobs, Step{}, fmt.Errorf("listing candidate applications: %w", err)
	}

	excluded := jobs.Exclude(ids)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding postings already applied to",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

// activeJobIDs pages through the candidate's ledger records and collects the
// job ids of non-withdrawn applications.
func activeJobIDs(ctx context.Context, lister Lister, candidateID string) ([]string, error) {
	var ids []string
	page := ledger.Page{}
	for {
		apps, next, err := lister.ListByCandidate(ctx, candidateID, page)
		if err != nil {
			return nil, err
		}
		for _, app := range apps {
			if app.Status != application.StatusWithdrawn {
				ids = append(ids, app.JobID)
			}
		}
		if next == "" {
			return ids, nil
		}
		page.Cursor = next
	}
}
