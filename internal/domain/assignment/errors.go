package assignment

import "errors"

var (
	// ErrVersionConflict is returned by Update when the stored version moved on.
	ErrVersionConflict = errors.New("assignment was modified concurrently")
	// ErrActiveAssignmentExists is returned by Create when the work item already has a
	// non-terminal assignment.
	ErrActiveAssignmentExists = errors.New("work item already has an active assignment")
	ErrInvalidTransition      = errors.New("invalid assignment status transition")
	ErrTerminal               = errors.New("assignment is closed")
)
