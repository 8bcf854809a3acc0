package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"talentflow/internal/match"
	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

// Indexer consumes jd_summary_queue and caches the job's embedding vector
// so the matcher does not re-embed every job for every candidate. The
// message carries everything needed to render the job text.
type Indexer struct {
	embedder Embedder
	vectors  VectorWriter
	timeout  time.Duration
}

func NewIndexer(embedder Embedder, vectors VectorWriter, timeout time.Duration) *Indexer {
	return &Indexer{embedder: embedder, vectors: vectors, timeout: timeout}
}

func (ix *Indexer) Process(ctx context.Context, body []byte) (pipeline.Outcome, error) {
	var msg pipeline.JDSummaryMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return pipeline.Drop, fmt.Errorf("decode summary message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return pipeline.Drop, err
	}
	ctx = withCorrelation(ctx, msg.CorrelationID)

	text := match.JobText(&store.JobDescription{
		JobTitle:         msg.JobTitle,
		Skills:           msg.Skills,
		Responsibilities: msg.Responsibilities,
		Qualifications:   msg.Qualifications,
	})

	octx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()
	vec, err := ix.embedder.Embed(octx, text)
	if err != nil {
		return pipeline.Retry, fmt.Errorf("embed job %s: %w", msg.JobID, err)
	}

	if err := ix.vectors.Put(ctx, msg.JobID, text, vec); err != nil {
		return pipeline.Retry, err
	}

	slog.InfoContext(ctx, "job vector cached", "job_id", msg.JobID, "dims", len(vec))
	return pipeline.Done, nil
}
