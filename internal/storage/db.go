package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"solarconv/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  mode TEXT NOT NULL,
  status TEXT NOT NULL,
  errorText TEXT NOT NULL DEFAULT '',
  fileCount INTEGER NOT NULL DEFAULT 0,
  rowCount INTEGER NOT NULL DEFAULT 0,
  durationMs INTEGER NOT NULL DEFAULT 0,
  startedAt TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_startedAt ON runs(startedAt);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(rec internal.RunRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, mode, status, errorText, fileCount, rowCount, durationMs, startedAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, rec.TraceID, rec.Mode, rec.Status, rec.Error, rec.Files, rec.Rows, rec.DurationMs, rec.StartedAt)
	return err
}

// ListRuns returns the latest runs, newest first.
func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, mode, status, errorText, fileCount, rowCount, durationMs, startedAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var r internal.RunRecord
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Mode, &r.Status, &r.Error, &r.Files, &r.Rows, &r.DurationMs, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
