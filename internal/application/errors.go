package application

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when no caller identity is present.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrCorruptRange is returned when a stored period range violates its
	// own invariant. This indicates data corruption, not user error.
	ErrCorruptRange = errors.New("application: stored period range is corrupt")
	// ErrStorage wraps unexpected persistence failures surfaced to callers
	// without internal detail.
	ErrStorage = errors.New("application: storage failure")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ScopeViolationError reports an agent outside the caller's planning scope.
type ScopeViolationError struct {
	AgentID string
}

func (e *ScopeViolationError) Error() string {
	return fmt.Sprintf("agent %s is outside the caller's scope", e.AgentID)
}

// UnassignedUnitError reports an agent with no current unit assignment.
type UnassignedUnitError struct {
	AgentID string
}

func (e *UnassignedUnitError) Error() string {
	return fmt.Sprintf("agent %s has no unit assignment", e.AgentID)
}
