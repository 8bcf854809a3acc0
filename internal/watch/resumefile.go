package watch

import (
	"context"
	"log/slog"

	"talentflow/internal/correlation"
	"talentflow/internal/pipeline"
)

// IngestLedger remembers which resume files already entered the pipeline.
type IngestLedger interface {
	Seen(ctx context.Context, path string) (bool, error)
	Record(ctx context.Context, path string) error
}

// ResumeFileHandler enqueues PDF resumes for parsing. Resumes stay in place
// after ingestion, so the ledger is what makes the catch-up scan idempotent.
type ResumeFileHandler struct {
	ledger IngestLedger
	pub    Publisher
	queue  string
}

func NewResumeFileHandler(ledger IngestLedger, pub Publisher, queue string) *ResumeFileHandler {
	return &ResumeFileHandler{ledger: ledger, pub: pub, queue: queue}
}

func (h *ResumeFileHandler) OnFileCreated(ctx context.Context, path string) {
	log := slog.With("path", path, "correlation_id", correlation.From(ctx))

	seen, err := h.ledger.Seen(ctx, path)
	if err != nil {
		log.Error("ingest ledger lookup failed", "error", err)
		return
	}
	if seen {
		log.Info("resume already ingested, skipping")
		return
	}

	msg := pipeline.ResumeMessage{
		ResumePath:    path,
		CorrelationID: correlation.From(ctx),
	}
	if err := h.pub.Publish(h.queue, &msg); err != nil {
		log.Error("publish resume failed", "error", err)
		return
	}
	// Record only after a successful publish; a crash in between means the
	// file is re-published on the next scan, and the parser tolerates that.
	if err := h.ledger.Record(ctx, path); err != nil {
		log.Error("ingest ledger record failed", "error", err)
	}

	log.Info("resume enqueued for parsing")
}
