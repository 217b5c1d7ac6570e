package repository

import (
	"database/sql"
	"fmt"
)

// migrations is the ordered schema history. Applied versions are
// recorded in schema_migrations, so re-running the whole list at every
// startup is safe. Never reorder or edit an applied entry, append.
var migrations = []struct {
	version int
	stmt    string
}{
	{1, `CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		format_id TEXT NOT NULL,
		status TEXT NOT NULL,
		title TEXT,
		local_path TEXT,
		error_msg TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`},
	{2, `ALTER TABLE tasks ADD COLUMN thumbnail TEXT`},
	{3, `ALTER TABLE tasks ADD COLUMN format_note TEXT`},
	{4, `ALTER TABLE tasks ADD COLUMN percent INTEGER`},
	{5, `ALTER TABLE tasks ADD COLUMN downloaded_bytes INTEGER`},
	{6, `ALTER TABLE tasks ADD COLUMN total_bytes INTEGER`},
	{7, `ALTER TABLE tasks ADD COLUMN speed TEXT`},
	{8, `ALTER TABLE tasks ADD COLUMN eta TEXT`},
	{9, `CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at)`},
	{10, `CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`},
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if exists > 0 {
			continue
		}

		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}

	return nil
}
