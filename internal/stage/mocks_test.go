package stage

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"talentflow/internal/oracle/gemini"
	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(queue string, payload any) error {
	args := m.Called(queue, payload)
	return args.Error(0)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockJobSummarizer struct {
	mock.Mock
}

func (m *MockJobSummarizer) SummarizeJob(ctx context.Context, rawText string) (*gemini.JobSummary, error) {
	args := m.Called(ctx, rawText)
	if v := args.Get(0); v != nil {
		return v.(*gemini.JobSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockResumeParser struct {
	mock.Mock
}

func (m *MockResumeParser) ParseResume(ctx context.Context, resumeText string) (*pipeline.ParsedResume, error) {
	args := m.Called(ctx, resumeText)
	if v := args.Get(0); v != nil {
		return v.(*pipeline.ParsedResume), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockInvitationWriter struct {
	mock.Mock
}

func (m *MockInvitationWriter) GenerateInvitation(ctx context.Context, company, candidateName, jobTitle string, details pipeline.MatchingDetails) (string, error) {
	args := m.Called(ctx, company, candidateName, jobTitle, details)
	return args.String(0), args.Error(1)
}

type MockJobUpdater struct {
	mock.Mock
}

func (m *MockJobUpdater) UpdateSummary(ctx context.Context, jobID, summary string, skills, responsibilities, qualifications []string) error {
	args := m.Called(ctx, jobID, summary, skills, responsibilities, qualifications)
	return args.Error(0)
}

type MockJobLister struct {
	mock.Mock
}

func (m *MockJobLister) List(ctx context.Context) ([]store.JobDescription, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]store.JobDescription), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCandidateStore struct {
	mock.Mock
}

func (m *MockCandidateStore) Save(ctx context.Context, name, email, phone, resumePath string) (*store.Candidate, error) {
	args := m.Called(ctx, name, email, phone, resumePath)
	if v := args.Get(0); v != nil {
		return v.(*store.Candidate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCandidateStore) Update(ctx context.Context, id int64, name, email, phone, resumePath string) (*store.Candidate, error) {
	args := m.Called(ctx, id, name, email, phone, resumePath)
	if v := args.Get(0); v != nil {
		return v.(*store.Candidate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCandidateStore) AttachResume(ctx context.Context, id int64, parsed json.RawMessage) error {
	args := m.Called(ctx, id, parsed)
	return args.Error(0)
}

type MockMatchSaver struct {
	mock.Mock
}

func (m *MockMatchSaver) Save(ctx context.Context, jobID, candidateID int64, score float64, shortlisted bool) (*store.Match, error) {
	args := m.Called(ctx, jobID, candidateID, score, shortlisted)
	if v := args.Get(0); v != nil {
		return v.(*store.Match), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMatchMarker struct {
	mock.Mock
}

func (m *MockMatchMarker) MarkEmailSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVectorCache struct {
	mock.Mock
}

func (m *MockVectorCache) Get(ctx context.Context, jobID string) ([]float32, bool, error) {
	args := m.Called(ctx, jobID)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

type MockVectorWriter struct {
	mock.Mock
}

func (m *MockVectorWriter) Put(ctx context.Context, jobID, text string, vector []float32) error {
	args := m.Called(ctx, jobID, text, vector)
	return args.Error(0)
}

type MockDeadLetterSink struct {
	mock.Mock
}

func (m *MockDeadLetterSink) Save(ctx context.Context, dl *store.DeadLetter) error {
	args := m.Called(ctx, dl)
	return args.Error(0)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
