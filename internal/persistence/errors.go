package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing key.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConstraintViolation is returned when a stored check fails.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
)

// UnassignedUnitError reports an agent whose current unit assignment was null
// at write time. The check runs inside the replace transaction so the unit is
// always read fresh.
type UnassignedUnitError struct {
	AgentID string
}

func (e *UnassignedUnitError) Error() string {
	return fmt.Sprintf("persistence: agent %s has no unit assignment", e.AgentID)
}

// UnitMismatchError reports an agent whose freshly read unit no longer
// matches the unit the caller is scoped to.
type UnitMismatchError struct {
	AgentID  string
	UnitID   string
	Required string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("persistence: agent %s belongs to unit %s, caller is scoped to %s", e.AgentID, e.UnitID, e.Required)
}
