package stage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"talentflow/internal/config"
	"talentflow/internal/correlation"
	"talentflow/internal/oracle/gemini"
	"talentflow/internal/pipeline"
)

// Summarizer consumes job_desc_queue: it turns a raw posting into the
// structured summary the matcher scores against, persists it, and forwards
// it downstream.
type Summarizer struct {
	oracle  JobSummarizer
	jobs    JobUpdater
	pub     Publisher
	timeout time.Duration
}

func NewSummarizer(oracle JobSummarizer, jobs JobUpdater, pub Publisher, timeout time.Duration) *Summarizer {
	return &Summarizer{oracle: oracle, jobs: jobs, pub: pub, timeout: timeout}
}

func (s *Summarizer) Process(ctx context.Context, body []byte) (pipeline.Outcome, error) {
	var msg pipeline.JobDescMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return pipeline.Drop, fmt.Errorf("decode job message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return pipeline.Drop, err
	}
	ctx = withCorrelation(ctx, msg.CorrelationID)

	octx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	summary, err := s.oracle.SummarizeJob(octx, msg.RawText)
	if err != nil {
		if errors.Is(err, gemini.ErrUnparseable) {
			return pipeline.Drop, err
		}
		return pipeline.Retry, err
	}

	jobTitle := msg.JobTitle
	if jobTitle == "" {
		jobTitle = summary.JobTitle
	}

	err = s.jobs.UpdateSummary(ctx, msg.JobID, summary.Summary, summary.Skills, summary.Responsibilities, summary.Qualifications)
	if err != nil {
		return pipeline.Retry, err
	}

	out := pipeline.JDSummaryMessage{
		JobID:            msg.JobID,
		JobTitle:         jobTitle,
		Summary:          summary.Summary,
		Skills:           summary.Skills,
		Responsibilities: summary.Responsibilities,
		Qualifications:   summary.Qualifications,
		CorrelationID:    correlation.From(ctx),
	}
	if err := s.pub.Publish(config.QueueJDSummary, &out); err != nil {
		return pipeline.Retry, err
	}

	slog.InfoContext(ctx, "job summarized", "job_id", msg.JobID, "skills", len(summary.Skills))
	return pipeline.Done, nil
}
