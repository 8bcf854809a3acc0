package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type JobRepo struct {
	db *sql.DB
}

func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

// Save creates a job description with raw text only. The summarizer fills in
// the rest later.
func (r *JobRepo) Save(ctx context.Context, jobID, jobTitle, rawText string) (*JobDescription, error) {
	jd := &JobDescription{JobID: jobID, JobTitle: jobTitle, RawText: rawText}
	query := `INSERT INTO job_descriptions (job_id, job_title, raw_text) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, jobID, jobTitle, rawText).Scan(&jd.ID, &jd.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save job %s: %w", jobID, err)
	}
	return jd, nil
}

// UpdateSummary attaches the summarizer's output to an existing job.
func (r *JobRepo) UpdateSummary(ctx context.Context, jobID, summary string, skills, responsibilities, qualifications []string) error {
	skillsJSON, err := json.Marshal(emptyIfNil(skills))
	if err != nil {
		return err
	}
	respJSON, err := json.Marshal(emptyIfNil(responsibilities))
	if err != nil {
		return err
	}
	qualJSON, err := json.Marshal(emptyIfNil(qualifications))
	if err != nil {
		return err
	}

	query := `
		UPDATE job_descriptions
		SET summary = $2, skills = $3, responsibilities = $4, qualifications = $5
		WHERE job_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, jobID, summary, skillsJSON, respJSON, qualJSON)
	if err != nil {
		return fmt.Errorf("update summary for %s: %w", jobID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update summary: job %s not found", jobID)
	}
	return nil
}

func (r *JobRepo) Get(ctx context.Context, jobID string) (*JobDescription, error) {
	query := `
		SELECT id, job_id, job_title, raw_text, summary, skills, responsibilities, qualifications, created_at
		FROM job_descriptions WHERE job_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, jobID))
}

// List returns every known job posting, oldest first. The matcher evaluates a
// candidate against all of them.
func (r *JobRepo) List(ctx context.Context) ([]JobDescription, error) {
	query := `
		SELECT id, job_id, job_title, raw_text, summary, skills, responsibilities, qualifications, created_at
		FROM job_descriptions ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []JobDescription
	for rows.Next() {
		jd, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *jd)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *JobRepo) scanOne(row rowScanner) (*JobDescription, error) {
	return scanJob(row)
}

func scanJob(row rowScanner) (*JobDescription, error) {
	jd := &JobDescription{}
	var skills, resp, qual []byte
	if err := row.Scan(&jd.ID, &jd.JobID, &jd.JobTitle, &jd.RawText, &jd.Summary, &skills, &resp, &qual, &jd.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &jd.Skills); err != nil {
		return nil, fmt.Errorf("decode skills for %s: %w", jd.JobID, err)
	}
	if err := json.Unmarshal(resp, &jd.Responsibilities); err != nil {
		return nil, fmt.Errorf("decode responsibilities for %s: %w", jd.JobID, err)
	}
	if err := json.Unmarshal(qual, &jd.Qualifications); err != nil {
		return nil, fmt.Errorf("decode qualifications for %s: %w", jd.JobID, err)
	}
	return jd, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
