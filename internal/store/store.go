// Package store holds the Postgres persistence layer. Every operation opens
// its own short-lived statement; nothing holds a transaction across a
// message's processing.
package store

import (
	"encoding/json"
	"time"
)

// JobDescription is created by the watcher with raw text only and filled in
// once by the summarizer. Never deleted by the pipeline.
type JobDescription struct {
	ID               int64
	JobID            string
	JobTitle         string
	RawText          string
	Summary          string
	Skills           []string
	Responsibilities []string
	Qualifications   []string
	CreatedAt        time.Time
}

// Candidate is created on first resume ingestion; the parser attaches the
// structured profile afterwards.
type Candidate struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	ResumePath   string
	ParsedResume json.RawMessage
	CreatedAt    time.Time
}

// Match relates one job to one candidate. shortlisted is decided once at
// creation; email_sent flips once when the notifier succeeds.
type Match struct {
	ID          int64
	JobID       int64
	CandidateID int64
	Score       float64
	Shortlisted bool
	EmailSent   bool
	EmailSentAt *time.Time
	CreatedAt   time.Time
}

// DeadLetter records a permanently dropped message for operator inspection.
type DeadLetter struct {
	ID        int64
	Queue     string
	Payload   json.RawMessage
	Error     string
	CreatedAt time.Time
}
