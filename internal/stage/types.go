// Package stage holds the queue consumers of the screening pipeline. Each
// stage decodes one typed payload, does its work, and reports an Outcome;
// the Runner translates outcomes into bus semantics.
package stage

import (
	"context"
	"encoding/json"

	"talentflow/internal/oracle/gemini"
	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

type Publisher interface {
	Publish(queue string, payload any) error
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type JobSummarizer interface {
	SummarizeJob(ctx context.Context, rawText string) (*gemini.JobSummary, error)
}

type ResumeParser interface {
	ParseResume(ctx context.Context, resumeText string) (*pipeline.ParsedResume, error)
}

type InvitationWriter interface {
	GenerateInvitation(ctx context.Context, company, candidateName, jobTitle string, details pipeline.MatchingDetails) (string, error)
}

type JobUpdater interface {
	UpdateSummary(ctx context.Context, jobID, summary string, skills, responsibilities, qualifications []string) error
}

type JobLister interface {
	List(ctx context.Context) ([]store.JobDescription, error)
}

type CandidateStore interface {
	Save(ctx context.Context, name, email, phone, resumePath string) (*store.Candidate, error)
	Update(ctx context.Context, id int64, name, email, phone, resumePath string) (*store.Candidate, error)
	AttachResume(ctx context.Context, id int64, parsed json.RawMessage) error
}

type MatchSaver interface {
	Save(ctx context.Context, jobID, candidateID int64, score float64, shortlisted bool) (*store.Match, error)
}

type MatchMarker interface {
	MarkEmailSent(ctx context.Context, id int64) error
}

// VectorCache serves precomputed job vectors; a miss is not an error.
type VectorCache interface {
	Get(ctx context.Context, jobID string) ([]float32, bool, error)
}

type VectorWriter interface {
	Put(ctx context.Context, jobID, text string, vector []float32) error
}

type DeadLetterSink interface {
	Save(ctx context.Context, dl *store.DeadLetter) error
}
