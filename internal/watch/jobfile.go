package watch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"talentflow/internal/correlation"
	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

// Publisher is the slice of the message bus the handlers need.
type Publisher interface {
	Publish(queue string, payload any) error
}

// JobSaver persists a raw job posting before it enters the queue.
type JobSaver interface {
	Save(ctx context.Context, jobID, jobTitle, rawText string) (*store.JobDescription, error)
}

// archiveDir is where fully processed job files are moved, relative to the
// watched directory. The catch-up scan never sees them again.
const archiveDir = "processed"

// JobFileHandler ingests CSV files of job postings. Expected columns:
// job_id, job_title, job_description. Rows without a description are
// skipped; rows without an id get a generated one.
type JobFileHandler struct {
	jobs  JobSaver
	pub   Publisher
	queue string

	now func() time.Time
}

func NewJobFileHandler(jobs JobSaver, pub Publisher, queue string) *JobFileHandler {
	return &JobFileHandler{jobs: jobs, pub: pub, queue: queue, now: time.Now}
}

func (h *JobFileHandler) OnFileCreated(ctx context.Context, path string) {
	log := slog.With("path", path, "correlation_id", correlation.From(ctx))

	f, err := os.Open(path)
	if err != nil {
		log.Error("open job file failed", "error", err)
		return
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		f.Close()
		log.Error("read job file header failed", "error", err)
		return
	}
	cols := columnIndex(header)

	published, skipped, failed := 0, 0, 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("malformed job file row", "error", err)
			failed++
			continue
		}

		jobID := field(row, cols, "job_id")
		if jobID == "" {
			jobID = fmt.Sprintf("job_%d", h.now().Unix())
			log.Warn("row has no job_id, generated one", "job_id", jobID)
		}
		jobTitle := field(row, cols, "job_title")
		rawText := field(row, cols, "job_description")
		if rawText == "" {
			log.Warn("row has empty job_description, skipping", "job_id", jobID)
			skipped++
			continue
		}

		if _, err := h.jobs.Save(ctx, jobID, jobTitle, rawText); err != nil {
			log.Error("save job failed", "job_id", jobID, "error", err)
			failed++
			continue
		}
		msg := pipeline.JobDescMessage{
			JobID:         jobID,
			JobTitle:      jobTitle,
			RawText:       rawText,
			CorrelationID: correlation.From(ctx),
		}
		if err := h.pub.Publish(h.queue, &msg); err != nil {
			log.Error("publish job failed", "job_id", jobID, "error", err)
			failed++
			continue
		}
		published++
	}
	f.Close()

	log.Info("job file ingested", "published", published, "skipped", skipped, "failed", failed)

	if err := archive(path); err != nil {
		log.Error("archive job file failed", "error", err)
	}
}

// archive moves the file into a processed/ subdirectory so the startup scan
// does not ingest it twice.
func archive(path string) error {
	dir := filepath.Join(filepath.Dir(path), archiveDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
