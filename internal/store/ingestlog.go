package store

import (
	"context"
	"database/sql"
)

// IngestLog is the status ledger for watched files that are not archived
// after publishing (resumes stay in place in the watched root). A recorded
// path is never re-published by the catch-up scan.
type IngestLog struct {
	db *sql.DB
}

func NewIngestLog(db *sql.DB) *IngestLog {
	return &IngestLog{db: db}
}

func (l *IngestLog) Record(ctx context.Context, path string) error {
	query := `INSERT INTO ingested_files (path) VALUES ($1) ON CONFLICT (path) DO NOTHING`
	_, err := l.db.ExecContext(ctx, query, path)
	return err
}

func (l *IngestLog) Seen(ctx context.Context, path string) (bool, error) {
	var seen bool
	query := `SELECT EXISTS (SELECT 1 FROM ingested_files WHERE path = $1)`
	err := l.db.QueryRowContext(ctx, query, path).Scan(&seen)
	return seen, err
}
