package valueobjects

import "fmt"

type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusOverdue    Status = "overdue"
	StatusCompleted  Status = "completed"
	StatusReassigned Status = "reassigned"
)

var statusTransitions = map[Status][]Status{
	StatusAssigned:   {StatusInProgress, StatusOverdue, StatusCompleted, StatusReassigned},
	StatusInProgress: {StatusOverdue, StatusCompleted, StatusReassigned},
	StatusOverdue:    {StatusCompleted, StatusReassigned},
	StatusCompleted:  {},
	StatusReassigned: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether the assignment no longer counts toward the assignee's load.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusReassigned
}

// IsSweepable reports whether a breached deadline should flip the status to overdue.
func (s Status) IsSweepable() bool {
	return s == StatusAssigned || s == StatusInProgress
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid assignment status: %s", s)
	}
	return st, nil
}

// ActiveStatuses are the non-terminal statuses.
func ActiveStatuses() []Status {
	return []Status{StatusAssigned, StatusInProgress, StatusOverdue}
}

// SweepableStatuses are the statuses the overdue sweep may transition.
func SweepableStatuses() []Status {
	return []Status{StatusAssigned, StatusInProgress}
}
