package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type CandidateRepo struct {
	db *sql.DB
}

func NewCandidateRepo(db *sql.DB) *CandidateRepo {
	return &CandidateRepo{db: db}
}

func (r *CandidateRepo) Save(ctx context.Context, name, email, phone, resumePath string) (*Candidate, error) {
	c := &Candidate{Name: name, Email: email, Phone: phone, ResumePath: resumePath}
	query := `INSERT INTO candidates (name, email, phone, resume_path) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, name, email, phone, resumePath).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save candidate: %w", err)
	}
	return c, nil
}

// Update refreshes contact fields on an existing candidate, for resume
// messages that arrive with a known candidate id. Scanning the RETURNING row
// surfaces sql.ErrNoRows when the id is unknown.
func (r *CandidateRepo) Update(ctx context.Context, id int64, name, email, phone, resumePath string) (*Candidate, error) {
	c := &Candidate{ID: id, Name: name, Email: email, Phone: phone, ResumePath: resumePath}
	query := `UPDATE candidates SET name = $2, email = $3, phone = $4, resume_path = $5 WHERE id = $1 RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, id, name, email, phone, resumePath).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update candidate %d: %w", id, err)
	}
	return c, nil
}

// AttachResume stores the parsed profile on an existing candidate. Writing the
// same profile twice is a no-op in effect, which keeps redelivered resume
// messages safe.
func (r *CandidateRepo) AttachResume(ctx context.Context, id int64, parsed json.RawMessage) error {
	query := `UPDATE candidates SET parsed_resume = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, []byte(parsed))
	if err != nil {
		return fmt.Errorf("attach resume to candidate %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("attach resume: candidate %d not found", id)
	}
	return nil
}

func (r *CandidateRepo) Get(ctx context.Context, id int64) (*Candidate, error) {
	c := &Candidate{}
	var parsed sql.NullString
	query := `SELECT id, name, email, phone, resume_path, parsed_resume, created_at FROM candidates WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumePath, &parsed, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if parsed.Valid {
		c.ParsedResume = json.RawMessage(parsed.String)
	}
	return c, nil
}
