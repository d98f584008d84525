package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "imports: one row per archived transcript",
		SQL: `
CREATE TABLE imports (
    id             INTEGER PRIMARY KEY,
    import_id      TEXT NOT NULL UNIQUE,
    name           TEXT NOT NULL,
    imported_at    INTEGER NOT NULL,
    message_count  INTEGER NOT NULL DEFAULT 0,
    warning_count  INTEGER NOT NULL DEFAULT 0,
    first_date     TEXT,
    last_date      TEXT
);

CREATE INDEX idx_imports_imported_at ON imports(imported_at DESC);
`,
	},
	{
		Version:     2,
		Description: "messages: parsed chat messages in transcript order",
		SQL: `
CREATE TABLE messages (
    id         INTEGER PRIMARY KEY,
    import_id  TEXT NOT NULL,
    seq        INTEGER NOT NULL,
    timestamp  INTEGER NOT NULL,
    date       TEXT NOT NULL,
    time       TEXT NOT NULL,
    sender     TEXT NOT NULL CHECK (sender <> ''),
    content    TEXT NOT NULL,

    UNIQUE (import_id, seq),
    FOREIGN KEY (import_id) REFERENCES imports(import_id) ON DELETE CASCADE
);

CREATE INDEX idx_messages_date   ON messages(import_id, date);
CREATE INDEX idx_messages_sender ON messages(import_id, sender);
`,
	},
	{
		Version:     3,
		Description: "import_warnings: header lines that could not be resolved",
		SQL: `
CREATE TABLE import_warnings (
    id         INTEGER PRIMARY KEY,
    import_id  TEXT NOT NULL,
    line       INTEGER NOT NULL,
    raw        TEXT NOT NULL,
    error      TEXT NOT NULL,

    FOREIGN KEY (import_id) REFERENCES imports(import_id) ON DELETE CASCADE
);

CREATE INDEX idx_warnings_import ON import_warnings(import_id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
