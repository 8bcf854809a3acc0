package store

import (
	"context"
	"database/sql"
	"encoding/json"
)

// DeadLetterRepo persists permanently dropped messages. The pipeline never
// reads them back; they exist so a drop is more than a log line.
type DeadLetterRepo struct {
	db *sql.DB
}

func NewDeadLetterRepo(db *sql.DB) *DeadLetterRepo {
	return &DeadLetterRepo{db: db}
}

func (r *DeadLetterRepo) Save(ctx context.Context, dl *DeadLetter) error {
	query := `INSERT INTO dead_letters (queue, payload, error) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, dl.Queue, []byte(dl.Payload), dl.Error).Scan(&dl.ID, &dl.CreatedAt)
}

func (r *DeadLetterRepo) List(ctx context.Context) ([]DeadLetter, error) {
	query := `SELECT id, queue, payload, error, created_at FROM dead_letters ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []DeadLetter
	for rows.Next() {
		var dl DeadLetter
		var payload []byte
		if err := rows.Scan(&dl.ID, &dl.Queue, &payload, &dl.Error, &dl.CreatedAt); err != nil {
			return nil, err
		}
		dl.Payload = json.RawMessage(payload)
		letters = append(letters, dl)
	}
	return letters, rows.Err()
}

func (r *DeadLetterRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dead_letters`).Scan(&count)
	return count, err
}
