package application

import "time"

// HistoryEntry records one accepted transition for audit display.
type HistoryEntry struct {
	Status  Status
	At      time.Time
	ActorID string
}

// Application is the lifecycle record for one (job, candidate) pair. It is
// owned exclusively by this subsystem: created on submission, mutated only
// through machine-approved transitions, never physically deleted.
type Application struct {
	ID          string
	JobID       string
	CandidateID string
	ResumeRef   string
	CoverLetter string
	Status      Status
	Notes       string
	History     []HistoryEntry
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy so stores can hand out records without sharing
// the history slice with callers.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	copied := *a
	copied.History = make([]HistoryEntry, len(a.History))
	copy(copied.History, a.History)
	return &copied
}
