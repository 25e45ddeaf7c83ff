package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/matchboard/internal/board"
	"github.com/spigell/matchboard/internal/matching"
)

const (
	// Recommendation list bounds per call.
	DefaultLimit = 10
	MaxLimit     = 20

	defaultWorkers = 4
)

// Ranker produces an ordered top-K recommendation list for a candidate. Each
// call recomputes from the snapshot it is given: nothing is cached across
// requests.
type Ranker struct {
	lister  Lister
	logger  *zap.Logger
	workers int
	now     func() time.Time
}

// New builds a Ranker. The logger may be nil; workers <= 0 falls back to the
// default pool size.
func New(lister Lister, logger *zap.Logger, workers int) *Ranker {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Ranker{
		lister:  lister,
		logger:  logger,
		workers: workers,
		now:     time.Now,
	}
}

// Recommend scores the snapshot's postings against the candidate and returns
// the top results ordered by score. The snapshot itself is never modified.
// Postings the candidate already applied to
// (non-withdrawn) and closed postings are excluded before scoring. Zero
// scores are kept: the ranker applies no score floor. The limit is clamped to
// [1,20]; zero or negative means the default of 10.
func (r *Ranker) Recommend(ctx context.Context, candidate *board.CandidateProfile, jobs *board.Jobs, limit int) ([]matching.MatchResult, error) {
	if candidate == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}
	if jobs == nil {
		jobs = &board.Jobs{}
	}
	// Filters shrink the working set in place; work on a copy so the
	// caller's snapshot survives the call and concurrent calls can share it.
	jobs = jobs.Clone()

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	deps := Deps{
		Lister:    r.lister,
		Logger:    r.logger,
		Candidate: candidate,
		Now:       r.now().UTC(),
	}

	filtered, err := runFilters(ctx, deps, []Filter{
		NewOpenJobs(),
		NewAppliedHistory(),
	}, jobs)
	if err != nil {
		return nil, fmt.Errorf("filtering job snapshot: %w", err)
	}

	scored, err := r.scoreAll(ctx, candidate, filtered.Items)
	if err != nil {
		return nil, err
	}

	// Deterministic order: score desc, then earliest posting, then job id.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].result.Score != scored[j].result.Score {
			return scored[i].result.Score > scored[j].result.Score
		}
		if !scored[i].postedAt.Equal(scored[j].postedAt) {
			return scored[i].postedAt.Before(scored[j].postedAt)
		}
		return scored[i].result.JobID < scored[j].result.JobID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]matching.MatchResult, 0, len(scored))
	for _, s := range scored {
		results = append(results, s.result)
	}

	if r.logger != nil {
		r.logger.Info("recommendations computed",
			zap.String("candidate_id", candidate.ID),
			zap.Int("returned", len(results)),
			zap.Int("limit", limit),
		)
	}

	return results, nil
}

type scoredJob struct {
	result   matching.MatchResult
	postedAt time.Time
}

// scoreAll fans scoring out across a bounded worker pool. Scoring is pure, so
// workers share no mutable state beyond their own result slot.
func (r *Ranker) scoreAll(ctx context.Context, candidate *board.CandidateProfile, jobs []*board.JobPosting) ([]scoredJob, error) {
	scored := make([]scoredJob, len(jobs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, job := range jobs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = scoredJob{
				result:   matching.Score(candidate, job),
				postedAt: job.PostedAt,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("scoring jobs: %w", err)
	}
	return scored, nil
}
