package application

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. The typed errors below unwrap to them and
// carry the context the caller needs to render a precise message.
var (
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrJobClosed            = errors.New("job closed")
	ErrInvalidTransition    = errors.New("invalid transition")
)

// DuplicateApplicationError reports a submission colliding with an existing
// non-withdrawn record for the same (job, candidate) pair.
type DuplicateApplicationError struct {
	JobID       string
	CandidateID string
	Existing    Status
}

func (e *DuplicateApplicationError) Error() string {
	return fmt.Sprintf("candidate %s already has a %s application for job %s", e.CandidateID, e.Existing, e.JobID)
}

func (e *DuplicateApplicationError) Unwrap() error { return ErrDuplicateApplication }

// JobClosedError reports a submission against an inactive or expired posting.
type JobClosedError struct {
	JobID  string
	Reason string
}

func (e *JobClosedError) Error() string {
	return fmt.Sprintf("job %s is closed: %s", e.JobID, e.Reason)
}

func (e *JobClosedError) Unwrap() error { return ErrJobClosed }

// InvalidTransitionError reports an illegal state change or a wrong-actor
// attempt. The application is left unchanged.
type InvalidTransitionError struct {
	ApplicationID string
	ActorID       string
	From          Status
	To            Status
	Reason        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("application %s: %s -> %s by %s: %s", e.ApplicationID, e.From, e.To, e.ActorID, e.Reason)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
