package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/spigell/matchboard/internal/application"
)

// Memory is an in-process Ledger used by tests and dry runs. It enforces the
// same uniqueness invariant as the durable implementations.
type Memory struct {
	mu     sync.RWMutex
	byID   map[string]*application.Application
	byPair map[pairKey][]*application.Application
}

type pairKey struct {
	jobID       string
	candidateID string
}

func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]*application.Application),
		byPair: make(map[pairKey][]*application.Application),
	}
}

// Find returns the pair's current record: the non-withdrawn one when present,
// otherwise the most recently submitted withdrawn one.
func (m *Memory) Find(ctx context.Context, jobID, candidateID string) (*application.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageUnavailableError{Op: "find", Err: err}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.byPair[pairKey{jobID, candidateID}]
	if len(records) == 0 {
		return nil, nil
	}
	for _, app := range records {
		if app.Status != application.StatusWithdrawn {
			return app.Clone(), nil
		}
	}
	return records[len(records)-1].Clone(), nil
}

func (m *Memory) FindByID(ctx context.Context, id string) (*application.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageUnavailableError{Op: "find", Err: err}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.byID[id].Clone(), nil
}

func (m *Memory) Save(ctx context.Context, app *application.Application) (*application.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageUnavailableError{Op: "save", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{app.JobID, app.CandidateID}
	if _, exists := m.byID[app.ID]; !exists {
		// New record: reject when a live one already occupies the pair.
		for _, other := range m.byPair[key] {
			if other.Status != application.StatusWithdrawn {
				return nil, &application.DuplicateApplicationError{
					JobID:       app.JobID,
					CandidateID: app.CandidateID,
					Existing:    other.Status,
				}
			}
		}
		stored := app.Clone()
		m.byID[app.ID] = stored
		m.byPair[key] = append(m.byPair[key], stored)
		return stored.Clone(), nil
	}

	stored := app.Clone()
	m.byID[app.ID] = stored
	records := m.byPair[key]
	for i, other := range records {
		if other.ID == app.ID {
			records[i] = stored
			break
		}
	}
	return stored.Clone(), nil
}

func (m *Memory) ListByCandidate(ctx context.Context, candidateID string, page Page) ([]*application.Application, string, error) {
	return m.list(ctx, page, func(app *application.Application) bool {
		return app.CandidateID == candidateID
	})
}

func (m *Memory) ListByJob(ctx context.Context, jobID string, page Page) ([]*application.Application, string, error) {
	return m.list(ctx, page, func(app *application.Application) bool {
		return app.JobID == jobID
	})
}

func (m *Memory) list(ctx context.Context, page Page, match func(*application.Application) bool) ([]*application.Application, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", &StorageUnavailableError{Op: "list", Err: err}
	}

	offset := 0
	if page.Cursor != "" {
		parsed, err := strconv.Atoi(page.Cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q", page.Cursor)
		}
		offset = parsed
	}

	m.mu.RLock()
	all := make([]*application.Application, 0, len(m.byID))
	for _, app := range m.byID {
		if match(app) {
			all = append(all, app)
		}
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].SubmittedAt.Equal(all[j].SubmittedAt) {
			return all[i].SubmittedAt.Before(all[j].SubmittedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return nil, "", nil
	}

	limit := page.limit()
	end := offset + limit
	next := ""
	if end < len(all) {
		next = strconv.Itoa(end)
	} else {
		end = len(all)
	}

	out := make([]*application.Application, 0, end-offset)
	for _, app := range all[offset:end] {
		out = append(out, app.Clone())
	}
	return out, next, nil
}
