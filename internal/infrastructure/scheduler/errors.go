package scheduler

import "errors"

var (
	// ErrInvalidTask is returned when registering a task without a name, runner or interval
	ErrInvalidTask = errors.New("invalid scheduler task")

	// ErrDuplicateTask is returned when two tasks share a name
	ErrDuplicateTask = errors.New("duplicate scheduler task")

	// ErrTaskNotFound is returned by RunTask for unknown names
	ErrTaskNotFound = errors.New("scheduler task not found")
)
