package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"talentflow/internal/config"
	"talentflow/internal/correlation"
	"talentflow/internal/match"
	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

// Matcher consumes resume_profile_queue: one message fans out into an
// evaluation against every known job. The candidate vector is embedded once
// per run; job vectors come from the cache, with a direct embed on miss.
// Every evaluation is recorded; qualifying ones also produce an email
// message, and the aggregate result is published exactly once.
type Matcher struct {
	embedder  Embedder
	jobs      JobLister
	vectors   VectorCache
	matches   MatchSaver
	pub       Publisher
	threshold float64
	timeout   time.Duration
}

func NewMatcher(embedder Embedder, jobs JobLister, vectors VectorCache, matches MatchSaver, pub Publisher, threshold float64, timeout time.Duration) *Matcher {
	return &Matcher{
		embedder:  embedder,
		jobs:      jobs,
		vectors:   vectors,
		matches:   matches,
		pub:       pub,
		threshold: threshold,
		timeout:   timeout,
	}
}

func (m *Matcher) Process(ctx context.Context, body []byte) (pipeline.Outcome, error) {
	var msg pipeline.ResumeProfileMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return pipeline.Drop, fmt.Errorf("decode resume profile: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return pipeline.Drop, err
	}
	ctx = withCorrelation(ctx, msg.CorrelationID)

	candVec, err := m.embed(ctx, match.ResumeText(&msg.ParsedResume))
	if err != nil {
		return pipeline.Retry, fmt.Errorf("embed candidate %d: %w", msg.CandidateID, err)
	}

	jobs, err := m.jobs.List(ctx)
	if err != nil {
		return pipeline.Retry, err
	}

	entries := make([]pipeline.MatchEntry, 0, len(jobs))
	emailed := 0
	for i := range jobs {
		job := &jobs[i]
		jobVec, err := m.jobVector(ctx, job)
		if err != nil {
			return pipeline.Retry, fmt.Errorf("embed job %s: %w", job.JobID, err)
		}

		similarity := match.Cosine(candVec, jobVec)
		score, details := match.Score(similarity, job.Skills, msg.ParsedResume.Skills)
		qualified := score >= m.threshold

		saved, err := m.matches.Save(ctx, job.ID, msg.CandidateID, score, qualified)
		if err != nil {
			return pipeline.Retry, err
		}
		entries = append(entries, pipeline.MatchEntry{
			JobID:           job.JobID,
			Score:           score,
			MatchingDetails: details,
			Qualified:       qualified,
		})

		if !qualified {
			continue
		}
		if msg.ParsedResume.Contact.Email == "" {
			slog.WarnContext(ctx, "qualified candidate has no email address", "candidate_id", msg.CandidateID, "job_id", job.JobID)
			continue
		}
		invite := pipeline.EmailMessage{
			MatchID:         saved.ID,
			JobID:           job.ID,
			JobTitle:        job.JobTitle,
			CandidateID:     msg.CandidateID,
			CandidateName:   msg.ParsedResume.Name,
			CandidateEmail:  msg.ParsedResume.Contact.Email,
			Score:           score,
			MatchingDetails: details,
			CorrelationID:   correlation.From(ctx),
		}
		if err := m.pub.Publish(config.QueueEmail, &invite); err != nil {
			return pipeline.Retry, err
		}
		emailed++
	}

	result := pipeline.MatchResultMessage{
		CandidateID:   msg.CandidateID,
		Matches:       entries,
		CorrelationID: correlation.From(ctx),
	}
	if err := m.pub.Publish(config.QueueMatch, &result); err != nil {
		return pipeline.Retry, err
	}

	slog.InfoContext(ctx, "candidate matched", "candidate_id", msg.CandidateID, "jobs", len(jobs), "emails", emailed)
	return pipeline.Done, nil
}

func (m *Matcher) embed(ctx context.Context, text string) ([]float32, error) {
	octx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.embedder.Embed(octx, text)
}

// jobVector prefers the cache the indexer maintains and falls back to a
// direct embed for jobs indexed before the cache existed.
func (m *Matcher) jobVector(ctx context.Context, job *store.JobDescription) ([]float32, error) {
	vec, ok, err := m.vectors.Get(ctx, job.JobID)
	if err != nil {
		slog.WarnContext(ctx, "vector cache lookup failed", "job_id", job.JobID, "error", err)
	} else if ok {
		return vec, nil
	}
	return m.embed(ctx, match.JobText(job))
}
