package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one ordered schema change. Versions are applied exactly once,
// tracked in the schema_migrations table.
type migration struct {
	version int
	name    string
	apply   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "base schema",
		apply: []string{
			`CREATE TABLE IF NOT EXISTS groups (
				id   TEXT PRIMARY KEY,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS units (
				id   TEXT PRIMARY KEY,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS agents (
				id       TEXT PRIMARY KEY,
				code     TEXT NOT NULL UNIQUE,
				nickname TEXT NOT NULL DEFAULT '',
				group_id TEXT REFERENCES groups(id),
				unit_id  TEXT REFERENCES units(id),
				category TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS vigencias (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				from_date  TEXT NOT NULL,
				to_date    TEXT NOT NULL,
				created_by TEXT NOT NULL,
				created_at TEXT NOT NULL,
				CHECK (to_date >= from_date)
			)`,
			`CREATE TABLE IF NOT EXISTS rest_plans (
				id            TEXT PRIMARY KEY,
				agent_id      TEXT NOT NULL REFERENCES agents(id),
				unit_id       TEXT NOT NULL REFERENCES units(id),
				from_date     TEXT NOT NULL,
				to_date       TEXT NOT NULL,
				state         TEXT NOT NULL,
				dest_group_id TEXT REFERENCES groups(id),
				dest_unit_id  TEXT REFERENCES units(id),
				created_by    TEXT NOT NULL,
				vigencia_id   TEXT REFERENCES vigencias(id),
				created_at    TEXT NOT NULL,
				CHECK (to_date >= from_date)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_rest_plans_agent_dates
				ON rest_plans (agent_id, from_date, to_date)`,
			`CREATE TABLE IF NOT EXISTS audit_events (
				id          TEXT PRIMARY KEY,
				actor       TEXT NOT NULL,
				action      TEXT NOT NULL,
				entity_type TEXT NOT NULL,
				entity_id   TEXT NOT NULL,
				detail      TEXT NOT NULL DEFAULT '',
				created_at  TEXT NOT NULL
			)`,
		},
	},
}

// Migrate applies pending schema migrations in version order, each inside its
// own transaction.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.DB().ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	for _, m := range migrations {
		applied, err := s.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.apply {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
				}
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := s.pool.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect migration state: %w", err)
	}
	return count > 0, nil
}
