package models

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrSubtaskTextRequired = errors.New("subtask text is required")
	ErrInvalidPriority     = errors.New("priority must be 'low', 'medium', or 'high'")
	ErrInvalidStatus       = errors.New("status must be 'backlog', 'in-progress', or 'done'")
	ErrInvalidDueDate      = errors.New("due date must be a valid YYYY-MM-DD date")
	ErrInvalidTheme        = errors.New("theme must be 'light' or 'dark'")
	ErrInvalidFilter       = errors.New("invalid filter value")
	ErrInvalidDirection    = errors.New("direction must be 'forward' or 'backward'")
)

// ValidationError reports which field of a mutation input was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
