// Package sqlite implements the persistence repositories on top of a SQLite
// database accessed through the pure-Go modernc.org/sqlite driver. Calendar
// dates are stored as "YYYY-MM-DD" text so lexicographic comparison matches
// date order; timestamps are stored as RFC 3339 text.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/rest-planning/internal/persistence"
)

// Storage bundles every repository over one connection pool. It satisfies
// persistence.PeriodRepository, AgentDirectory, PlanRepository and
// AuditRepository.
type Storage struct {
	pool *ConnectionPool
}

// Open creates a Storage over the database identified by dsn.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Storage{pool: pool}, nil
}

// NewStorage wraps an existing connection pool.
func NewStorage(pool *ConnectionPool) *Storage {
	return &Storage{pool: pool}
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func nullable(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func fromNullable(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	clone := value.String
	return &clone
}

var _ persistence.PeriodRepository = (*Storage)(nil)
var _ persistence.AgentDirectory = (*Storage)(nil)
var _ persistence.PlanRepository = (*Storage)(nil)
var _ persistence.AuditRepository = (*Storage)(nil)
