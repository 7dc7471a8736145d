package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/rest-planning/internal/persistence"
	_ "modernc.org/sqlite"
)

// ConnectionPool manages the SQLite database handle with transaction support.
// It is constructed once at startup and injected into every repository that
// needs persistence.
type ConnectionPool struct {
	db *sql.DB
}

// NewConnectionPool opens the database identified by dsn and verifies the
// connection. Foreign keys are enforced per connection.
func NewConnectionPool(dsn string) (*ConnectionPool, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &ConnectionPool{db: db}, nil
}

// DB returns the underlying database handle.
func (cp *ConnectionPool) DB() *sql.DB {
	return cp.db
}

// Close closes the connection pool.
func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Ping tests the database connection.
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	return cp.db.PingContext(ctx)
}

// TransactionFunc represents a function executed within a transaction.
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction executes fn inside a database transaction. If fn returns an
// error or panics the transaction is rolled back, otherwise it is committed.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// mapSQLError translates driver errors into persistence sentinel errors.
func mapSQLError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return persistence.ErrConstraintViolation
	}

	return err
}
