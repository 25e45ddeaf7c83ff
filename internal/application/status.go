package application

import (
	"fmt"
	"strings"
)

// Status is an application's position in the review lifecycle.
type Status string

const (
	StatusSubmitted          Status = "SUBMITTED"
	StatusUnderReview        Status = "UNDER_REVIEW"
	StatusShortlisted        Status = "SHORTLISTED"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusInterviewed        Status = "INTERVIEWED"
	StatusOffered            Status = "OFFERED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
)

// forwardRank orders the primary review sequence. An administrator may skip
// ahead along it but never move back. WITHDRAWN sits outside the sequence.
var forwardRank = map[Status]int{
	StatusSubmitted:          0,
	StatusUnderReview:        1,
	StatusShortlisted:        2,
	StatusInterviewScheduled: 3,
	StatusInterviewed:        4,
	StatusOffered:            5,
	StatusRejected:           5,
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	switch s {
	case StatusOffered, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	if s == StatusWithdrawn {
		return true
	}
	_, ok := forwardRank[s]
	return ok
}

// ParseStatus resolves a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return status, nil
}

// Statuses lists all known statuses in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusSubmitted,
		StatusUnderReview,
		StatusShortlisted,
		StatusInterviewScheduled,
		StatusInterviewed,
		StatusOffered,
		StatusRejected,
		StatusWithdrawn,
	}
}

// Role identifies the kind of actor requesting a transition.
type Role string

const (
	RoleCandidate     Role = "candidate"
	RoleAdministrator Role = "administrator"
)
