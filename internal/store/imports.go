package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lazypower/chatlog/internal/transcript"
)

// ErrNotFound is returned when an import does not exist.
var ErrNotFound = errors.New("not found")

// Import is one archived transcript.
type Import struct {
	ID           string
	Name         string
	ImportedAt   int64 // unix millis
	MessageCount int
	WarningCount int
	FirstDate    string
	LastDate     string
}

// Warning is a stored parse diagnostic.
type Warning struct {
	Line  int
	Raw   string
	Error string
}

// SaveImport archives a parse result under a fresh import ID. Messages keep
// their transcript order in Seq. Everything is written in one transaction.
func (db *DB) SaveImport(name string, res transcript.Result) (*Import, error) {
	imp := &Import{
		ID:           uuid.NewString(),
		Name:         name,
		ImportedAt:   time.Now().UnixMilli(),
		MessageCount: len(res.Messages),
		WarningCount: len(res.Warnings),
	}
	if n := len(res.Messages); n > 0 {
		imp.FirstDate = res.Messages[0].Date
		imp.LastDate = res.Messages[n-1].Date
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO imports (import_id, name, imported_at, message_count, warning_count, first_date, last_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, imp.ID, imp.Name, imp.ImportedAt, imp.MessageCount, imp.WarningCount, nullString(imp.FirstDate), nullString(imp.LastDate)); err != nil {
		return nil, fmt.Errorf("insert import: %w", err)
	}

	msgStmt, err := tx.Prepare(`
		INSERT INTO messages (import_id, seq, timestamp, date, time, sender, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare message insert: %w", err)
	}
	defer msgStmt.Close()

	for i, m := range res.Messages {
		if _, err := msgStmt.Exec(imp.ID, i, m.Timestamp.Unix(), m.Date, m.Time, m.Sender, m.Content); err != nil {
			return nil, fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	for _, w := range res.Warnings {
		if _, err := tx.Exec(`
			INSERT INTO import_warnings (import_id, line, raw, error) VALUES (?, ?, ?, ?)
		`, imp.ID, w.Line, w.Raw, w.Err.Error()); err != nil {
			return nil, fmt.Errorf("insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return imp, nil
}

const importColumns = `import_id, name, imported_at, message_count, warning_count, COALESCE(first_date, ''), COALESCE(last_date, '')`

func scanImport(row interface{ Scan(...any) error }) (*Import, error) {
	var imp Import
	err := row.Scan(&imp.ID, &imp.Name, &imp.ImportedAt, &imp.MessageCount, &imp.WarningCount, &imp.FirstDate, &imp.LastDate)
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// GetImport returns an import by ID, or ErrNotFound.
func (db *DB) GetImport(id string) (*Import, error) {
	imp, err := scanImport(db.QueryRow(`SELECT `+importColumns+` FROM imports WHERE import_id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import: %w", err)
	}
	return imp, nil
}

// ListImports returns the most recent imports first. limit <= 0 means no limit.
func (db *DB) ListImports(limit int) ([]Import, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT `+importColumns+` FROM imports ORDER BY imported_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var imps []Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imps = append(imps, *imp)
	}
	return imps, rows.Err()
}

// DeleteImport removes an import together with its messages and warnings.
func (db *DB) DeleteImport(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM imports WHERE import_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	// foreign_keys is a per-connection pragma, so children are removed explicitly.
	for _, table := range []string{"messages", "import_warnings"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE import_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// ImportWarnings returns the stored diagnostics of an import in line order.
func (db *DB) ImportWarnings(id string) ([]Warning, error) {
	rows, err := db.Query(`
		SELECT line, raw, error FROM import_warnings WHERE import_id = ? ORDER BY line
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get warnings: %w", err)
	}
	defer rows.Close()

	var ws []Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.Line, &w.Raw, &w.Error); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
