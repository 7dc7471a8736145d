package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/rest-planning/internal/persistence"
)

// GetAgent retrieves an agent catalog record by id.
func (s *Storage) GetAgent(ctx context.Context, id string) (persistence.Agent, error) {
	if id == "" {
		return persistence.Agent{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, code, nickname, group_id, unit_id, category
		FROM agents
		WHERE id = ?
	`

	var agent persistence.Agent
	var groupID, unitID sql.NullString

	err := s.pool.DB().QueryRowContext(ctx, query, id).Scan(
		&agent.ID,
		&agent.Code,
		&agent.Nickname,
		&groupID,
		&unitID,
		&agent.Category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Agent{}, persistence.ErrNotFound
		}
		return persistence.Agent{}, mapSQLError(err)
	}

	agent.GroupID = fromNullable(groupID)
	agent.UnitID = fromNullable(unitID)

	return agent, nil
}
