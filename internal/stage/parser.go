package stage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"talentflow/internal/config"
	"talentflow/internal/correlation"
	"talentflow/internal/pipeline"
	"talentflow/internal/resume"
	"talentflow/internal/store"
)

// Parser consumes resume_queue: it extracts text from the PDF, asks the
// oracle for a structured profile, and registers the candidate. A regex pass
// over the raw text backfills name and contact details the oracle missed, so
// the candidate is never lost entirely.
type Parser struct {
	oracle     ResumeParser
	candidates CandidateStore
	pub        Publisher
	timeout    time.Duration

	extract func(path string) (string, error)
}

func NewParser(oracle ResumeParser, candidates CandidateStore, pub Publisher, timeout time.Duration) *Parser {
	return &Parser{
		oracle:     oracle,
		candidates: candidates,
		pub:        pub,
		timeout:    timeout,
		extract:    resume.ExtractText,
	}
}

func (p *Parser) Process(ctx context.Context, body []byte) (pipeline.Outcome, error) {
	var msg pipeline.ResumeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return pipeline.Drop, fmt.Errorf("decode resume message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return pipeline.Drop, err
	}
	ctx = withCorrelation(ctx, msg.CorrelationID)

	text, err := p.extract(msg.ResumePath)
	if err != nil {
		// An unreadable file stays unreadable; retrying will not help.
		return pipeline.Drop, fmt.Errorf("extract %s: %w", msg.ResumePath, err)
	}
	if text == "" {
		return pipeline.Drop, fmt.Errorf("no text in %s", msg.ResumePath)
	}

	parsed := p.parse(ctx, text, msg.ResumePath)

	var candidate *store.Candidate
	if msg.CandidateID != 0 {
		candidate, err = p.candidates.Update(ctx, msg.CandidateID, parsed.Name, parsed.Contact.Email, parsed.Contact.Phone, msg.ResumePath)
	} else {
		candidate, err = p.candidates.Save(ctx, parsed.Name, parsed.Contact.Email, parsed.Contact.Phone, msg.ResumePath)
	}
	if errors.Is(err, sql.ErrNoRows) {
		// The message names a candidate that does not exist; redelivery
		// will not create one.
		return pipeline.Drop, err
	}
	if err != nil {
		return pipeline.Retry, err
	}
	profileJSON, err := json.Marshal(parsed)
	if err != nil {
		return pipeline.Drop, fmt.Errorf("encode parsed resume: %w", err)
	}
	if err := p.candidates.AttachResume(ctx, candidate.ID, profileJSON); err != nil {
		return pipeline.Retry, err
	}

	out := pipeline.ResumeProfileMessage{
		CandidateID:   candidate.ID,
		ResumePath:    msg.ResumePath,
		ParsedResume:  *parsed,
		CorrelationID: correlation.From(ctx),
	}
	if err := p.pub.Publish(config.QueueResumeProfile, &out); err != nil {
		return pipeline.Retry, err
	}

	slog.InfoContext(ctx, "resume parsed", "candidate_id", candidate.ID, "name", parsed.Name, "skills", len(parsed.Skills))
	return pipeline.Done, nil
}

// parse asks the oracle for the full profile and falls back to pattern
// extraction when it cannot deliver one. Even a successful oracle response
// can come back with empty name or contact fields, so those are always
// backfilled from the raw text.
func (p *Parser) parse(ctx context.Context, text, path string) *pipeline.ParsedResume {
	octx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	info := resume.ExtractBasicInfo(text)

	parsed, err := p.oracle.ParseResume(octx, text)
	if err != nil {
		slog.WarnContext(ctx, "oracle parse failed, using fallback extraction", "path", path, "error", err)
		return &pipeline.ParsedResume{
			Name:    info.Name,
			Contact: pipeline.Contact{Email: info.Email, Phone: info.Phone},
		}
	}
	if parsed.Name == "" {
		parsed.Name = info.Name
	}
	if parsed.Contact.Email == "" {
		parsed.Contact.Email = info.Email
	}
	if parsed.Contact.Phone == "" {
		parsed.Contact.Phone = info.Phone
	}
	return parsed
}
