package sqlite

import (
	"context"

	"github.com/example/rest-planning/internal/persistence"
)

// AppendEvent stores one audit trail event.
func (s *Storage) AppendEvent(ctx context.Context, event persistence.AuditEvent) error {
	if event.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO audit_events (id, actor, action, entity_type, entity_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.pool.DB().ExecContext(ctx, query,
		event.ID,
		event.Actor,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.Detail,
		formatTimestamp(event.CreatedAt),
	)
	if err != nil {
		return mapSQLError(err)
	}

	return nil
}
