package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/rest-planning/internal/persistence"
)

// CreatePeriod inserts a new validity period.
func (s *Storage) CreatePeriod(ctx context.Context, period persistence.Period) error {
	if period.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO vigencias (id, name, from_date, to_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.pool.DB().ExecContext(ctx, query,
		period.ID,
		period.Name,
		formatDate(period.From),
		formatDate(period.To),
		period.CreatedBy,
		formatTimestamp(period.CreatedAt),
	)
	if err != nil {
		return mapSQLError(err)
	}

	return nil
}

// GetPeriod retrieves a validity period by id.
func (s *Storage) GetPeriod(ctx context.Context, id string) (persistence.Period, error) {
	if id == "" {
		return persistence.Period{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, from_date, to_date, created_by, created_at
		FROM vigencias
		WHERE id = ?
	`

	row := s.pool.DB().QueryRowContext(ctx, query, id)
	period, err := scanPeriod(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Period{}, persistence.ErrNotFound
		}
		return persistence.Period{}, mapSQLError(err)
	}

	return period, nil
}

// ListPeriods returns every validity period, newest first.
func (s *Storage) ListPeriods(ctx context.Context) ([]persistence.Period, error) {
	query := `
		SELECT id, name, from_date, to_date, created_by, created_at
		FROM vigencias
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var periods []persistence.Period
	for rows.Next() {
		period, err := scanPeriod(rows.Scan)
		if err != nil {
			return nil, mapSQLError(err)
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, mapSQLError(err)
	}

	return periods, nil
}

func scanPeriod(scan func(dest ...any) error) (persistence.Period, error) {
	var period persistence.Period
	var fromStr, toStr, createdAtStr string

	if err := scan(&period.ID, &period.Name, &fromStr, &toStr, &period.CreatedBy, &createdAtStr); err != nil {
		return persistence.Period{}, err
	}

	var err error
	if period.From, err = parseDate(fromStr); err != nil {
		return persistence.Period{}, fmt.Errorf("failed to parse from_date: %w", err)
	}
	if period.To, err = parseDate(toStr); err != nil {
		return persistence.Period{}, fmt.Errorf("failed to parse to_date: %w", err)
	}
	if period.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return persistence.Period{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return period, nil
}
