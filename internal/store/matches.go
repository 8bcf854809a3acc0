package store

import (
	"context"
	"database/sql"
	"fmt"
)

type MatchRepo struct {
	db *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Save inserts one evaluation. Repeated evaluations of the same (job,
// candidate) pair insert additional rows; the model does not deduplicate.
func (r *MatchRepo) Save(ctx context.Context, jobID, candidateID int64, score float64, shortlisted bool) (*Match, error) {
	m := &Match{JobID: jobID, CandidateID: candidateID, Score: score, Shortlisted: shortlisted}
	query := `INSERT INTO matches (job_id, candidate_id, score, shortlisted) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, jobID, candidateID, score, shortlisted).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save match: %w", err)
	}
	return m, nil
}

// MarkEmailSent is the one mutation a Match ever receives.
func (r *MatchRepo) MarkEmailSent(ctx context.Context, id int64) error {
	query := `UPDATE matches SET email_sent = TRUE, email_sent_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark email sent for match %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark email sent: match %d not found", id)
	}
	return nil
}

func (r *MatchRepo) Get(ctx context.Context, id int64) (*Match, error) {
	m := &Match{}
	var sentAt sql.NullTime
	query := `SELECT id, job_id, candidate_id, score, shortlisted, email_sent, email_sent_at, created_at FROM matches WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.JobID, &m.CandidateID, &m.Score, &m.Shortlisted, &m.EmailSent, &sentAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		m.EmailSentAt = &sentAt.Time
	}
	return m, nil
}

// ListForJob returns matches for a job, optionally filtered to scores at or
// above minScore.
func (r *MatchRepo) ListForJob(ctx context.Context, jobID int64, minScore *float64) ([]Match, error) {
	query := `SELECT id, job_id, candidate_id, score, shortlisted, email_sent, email_sent_at, created_at FROM matches WHERE job_id = $1`
	args := []any{jobID}
	if minScore != nil {
		query += ` AND score >= $2`
		args = append(args, *minScore)
	}
	query += ` ORDER BY score DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var sentAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.JobID, &m.CandidateID, &m.Score, &m.Shortlisted, &m.EmailSent, &sentAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			m.EmailSentAt = &sentAt.Time
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListShortlisted returns the shortlisted candidates for a job with their
// match score.
func (r *MatchRepo) ListShortlisted(ctx context.Context, jobID int64) ([]Match, error) {
	query := `
		SELECT id, job_id, candidate_id, score, shortlisted, email_sent, email_sent_at, created_at
		FROM matches WHERE job_id = $1 AND shortlisted ORDER BY score DESC
	`
	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var sentAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.JobID, &m.CandidateID, &m.Score, &m.Shortlisted, &m.EmailSent, &sentAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			m.EmailSentAt = &sentAt.Time
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
