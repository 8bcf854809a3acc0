package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talentflow/internal/pipeline"
)

func inviteBody(t *testing.T) []byte {
	t.Helper()
	return encode(t, &pipeline.EmailMessage{
		MatchID:        99,
		JobID:          1,
		JobTitle:       "Data Engineer",
		CandidateID:    42,
		CandidateName:  "Jane Doe",
		CandidateEmail: "jane@example.com",
		Score:          0.93,
		MatchingDetails: pipeline.MatchingDetails{
			MatchingSkills:       []string{"python", "sql"},
			SkillMatchPercentage: 1.0,
			OverallSimilarity:    0.9,
		},
	})
}

func TestNotifier_SendsAndMarks(t *testing.T) {
	oracle := new(MockInvitationWriter)
	oracle.On("GenerateInvitation", mock.Anything, "TalentFlow", "Jane Doe", "Data Engineer", mock.Anything).
		Return("Dear Jane, we would like to interview you.", nil)
	sender := new(MockSender)
	sender.On("Send", mock.Anything, "jane@example.com", "Interview Invitation: Data Engineer Position",
		"Dear Jane, we would like to interview you.").Return(nil)
	matches := new(MockMatchMarker)
	matches.On("MarkEmailSent", mock.Anything, int64(99)).Return(nil)

	n := NewNotifier(oracle, sender, matches, "TalentFlow", testTimeout)
	outcome, err := n.Process(context.Background(), inviteBody(t))

	require.NoError(t, err)
	assert.Equal(t, pipeline.Done, outcome)
	sender.AssertExpectations(t)
	matches.AssertExpectations(t)
}

func TestNotifier_OracleFailureUsesTemplate(t *testing.T) {
	oracle := new(MockInvitationWriter)
	oracle.On("GenerateInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("quota exceeded"))
	sender := new(MockSender)
	sender.On("Send", mock.Anything, "jane@example.com", mock.Anything, mock.Anything).Return(nil)
	matches := new(MockMatchMarker)
	matches.On("MarkEmailSent", mock.Anything, int64(99)).Return(nil)

	n := NewNotifier(oracle, sender, matches, "TalentFlow", testTimeout)
	outcome, err := n.Process(context.Background(), inviteBody(t))

	require.NoError(t, err)
	assert.Equal(t, pipeline.Done, outcome)

	body := sender.Calls[0].Arguments.String(3)
	assert.Contains(t, body, "Dear Jane Doe")
	assert.Contains(t, body, "Data Engineer position")
	assert.Contains(t, body, "python, sql")
	assert.Contains(t, body, "TalentFlow Recruiting Team")
}

func TestNotifier_SendFailureDoesNotRetry(t *testing.T) {
	oracle := new(MockInvitationWriter)
	oracle.On("GenerateInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("body", nil)
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp unreachable"))
	matches := new(MockMatchMarker)

	n := NewNotifier(oracle, sender, matches, "TalentFlow", testTimeout)
	outcome, err := n.Process(context.Background(), inviteBody(t))

	// A requeued send risks double-emailing; the failure is logged and acked.
	require.NoError(t, err)
	assert.Equal(t, pipeline.Done, outcome)
	matches.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything)
}

func TestNotifier_MarkFailureStillDone(t *testing.T) {
	oracle := new(MockInvitationWriter)
	oracle.On("GenerateInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("body", nil)
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	matches := new(MockMatchMarker)
	matches.On("MarkEmailSent", mock.Anything, int64(99)).Return(errors.New("db down"))

	n := NewNotifier(oracle, sender, matches, "TalentFlow", testTimeout)
	outcome, err := n.Process(context.Background(), inviteBody(t))

	require.NoError(t, err)
	assert.Equal(t, pipeline.Done, outcome)
}

func TestNotifier_MalformedBodyDrops(t *testing.T) {
	n := NewNotifier(new(MockInvitationWriter), new(MockSender), new(MockMatchMarker), "TalentFlow", testTimeout)

	outcome, err := n.Process(context.Background(), []byte("nope"))

	assert.Equal(t, pipeline.Drop, outcome)
	assert.Error(t, err)
}

func TestNotifier_MissingEmailDrops(t *testing.T) {
	sender := new(MockSender)
	n := NewNotifier(new(MockInvitationWriter), sender, new(MockMatchMarker), "TalentFlow", testTimeout)

	body := encode(t, &pipeline.EmailMessage{MatchID: 1, JobTitle: "Engineer"})
	outcome, err := n.Process(context.Background(), body)

	assert.Equal(t, pipeline.Drop, outcome)
	assert.ErrorIs(t, err, pipeline.ErrMissingField)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
