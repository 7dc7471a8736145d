package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/rest-planning/internal/persistence"
)

// ReplacePlans applies every replacement inside one transaction. For each
// agent the current unit is read fresh, prior rows intersecting the
// replacement span (and scope) are deleted, and the validated rows are
// inserted with the fresh unit denormalized onto them. Any failure rolls the
// whole submission back; no agent is ever half-applied.
func (s *Storage) ReplacePlans(ctx context.Context, replacements []persistence.PlanReplacement) error {
	if len(replacements) == 0 {
		return nil
	}

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, repl := range replacements {
			if err := s.replaceAgentPlanTx(tx, repl); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) replaceAgentPlanTx(tx *sql.Tx, repl persistence.PlanReplacement) error {
	var unitID sql.NullString
	err := tx.QueryRow("SELECT unit_id FROM agents WHERE id = ?", repl.AgentID).Scan(&unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		return mapSQLError(err)
	}
	if !unitID.Valid || unitID.String == "" {
		return &persistence.UnassignedUnitError{AgentID: repl.AgentID}
	}
	if repl.RequiredUnitID != nil && unitID.String != *repl.RequiredUnitID {
		return &persistence.UnitMismatchError{
			AgentID:  repl.AgentID,
			UnitID:   unitID.String,
			Required: *repl.RequiredUnitID,
		}
	}

	// Standard interval-overlap predicate: keep only rows fully outside the
	// replacement span.
	deleteQuery := `
		DELETE FROM rest_plans
		WHERE agent_id = ?
		AND NOT (to_date < ? OR from_date > ?)
	`
	args := []any{repl.AgentID, formatDate(repl.SpanFrom), formatDate(repl.SpanTo)}
	if repl.PeriodID != nil {
		deleteQuery += " AND vigencia_id = ?"
		args = append(args, *repl.PeriodID)
	} else {
		deleteQuery += " AND vigencia_id IS NULL"
	}

	if _, err := tx.Exec(deleteQuery, args...); err != nil {
		return mapSQLError(err)
	}

	insertQuery := `
		INSERT INTO rest_plans (id, agent_id, unit_id, from_date, to_date, state,
			dest_group_id, dest_unit_id, created_by, vigencia_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, row := range repl.Rows {
		_, err := tx.Exec(insertQuery,
			row.ID,
			row.AgentID,
			unitID.String,
			formatDate(row.From),
			formatDate(row.To),
			row.State,
			nullable(row.DestGroupID),
			nullable(row.DestUnitID),
			row.CreatedBy,
			nullable(repl.PeriodID),
			formatTimestamp(row.CreatedAt),
		)
		if err != nil {
			return mapSQLError(err)
		}
	}

	return nil
}

// ListPlans returns plan rows matching the filter joined with agent and
// organizational display data, ordered by agent code then start date.
func (s *Storage) ListPlans(ctx context.Context, filter persistence.PlanFilter) ([]persistence.ProjectedPlanRow, error) {
	query := `
		SELECT p.id, p.agent_id, p.unit_id, p.from_date, p.to_date, p.state,
			p.dest_group_id, p.dest_unit_id, p.created_by, p.vigencia_id, p.created_at,
			a.code, a.nickname, u.name,
			dg.name, du.name
		FROM rest_plans p
		JOIN agents a ON a.id = p.agent_id
		JOIN units u ON u.id = p.unit_id
		LEFT JOIN groups dg ON dg.id = p.dest_group_id
		LEFT JOIN units du ON du.id = p.dest_unit_id
	`

	var conditions []string
	var args []any

	if filter.PeriodID != nil {
		conditions = append(conditions, "p.vigencia_id = ?")
		args = append(args, *filter.PeriodID)
	}
	if filter.From != nil && filter.To != nil {
		conditions = append(conditions, "NOT (p.to_date < ? OR p.from_date > ?)")
		args = append(args, formatDate(*filter.From), formatDate(*filter.To))
	}
	if filter.UnitID != nil {
		conditions = append(conditions, "p.unit_id = ?")
		args = append(args, *filter.UnitID)
	}
	if filter.AgentID != nil {
		conditions = append(conditions, "p.agent_id = ?")
		args = append(args, *filter.AgentID)
	}
	if filter.GroupID != nil {
		conditions = append(conditions, "a.group_id = ?")
		args = append(args, *filter.GroupID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.code ASC, p.from_date ASC, p.id ASC"

	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var out []persistence.ProjectedPlanRow
	for rows.Next() {
		row, err := scanProjectedPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, mapSQLError(err)
	}

	return out, nil
}

func scanProjectedPlan(rows *sql.Rows) (persistence.ProjectedPlanRow, error) {
	var row persistence.ProjectedPlanRow
	var fromStr, toStr, createdAtStr string
	var destGroupID, destUnitID, periodID sql.NullString
	var destGroupName, destUnitName sql.NullString

	err := rows.Scan(
		&row.ID,
		&row.AgentID,
		&row.UnitID,
		&fromStr,
		&toStr,
		&row.State,
		&destGroupID,
		&destUnitID,
		&row.CreatedBy,
		&periodID,
		&createdAtStr,
		&row.AgentCode,
		&row.AgentNickname,
		&row.UnitName,
		&destGroupName,
		&destUnitName,
	)
	if err != nil {
		return persistence.ProjectedPlanRow{}, mapSQLError(err)
	}

	row.DestGroupID = fromNullable(destGroupID)
	row.DestUnitID = fromNullable(destUnitID)
	row.PeriodID = fromNullable(periodID)
	row.DestGroupName = fromNullable(destGroupName)
	row.DestUnitName = fromNullable(destUnitName)

	if row.From, err = parseDate(fromStr); err != nil {
		return persistence.ProjectedPlanRow{}, fmt.Errorf("failed to parse from_date: %w", err)
	}
	if row.To, err = parseDate(toStr); err != nil {
		return persistence.ProjectedPlanRow{}, fmt.Errorf("failed to parse to_date: %w", err)
	}
	if row.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return persistence.ProjectedPlanRow{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return row, nil
}
