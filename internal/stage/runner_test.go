package stage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

func TestRunner_DoneAcks(t *testing.T) {
	sink := new(MockDeadLetterSink)
	r := NewRunner("resume_queue", func(ctx context.Context, body []byte) (pipeline.Outcome, error) {
		return pipeline.Done, nil
	}, sink)

	assert.NoError(t, r.Handle(context.Background(), []byte(`{}`)))
	sink.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRunner_RetryReturnsError(t *testing.T) {
	sink := new(MockDeadLetterSink)
	boom := errors.New("db down")
	r := NewRunner("resume_queue", func(ctx context.Context, body []byte) (pipeline.Outcome, error) {
		return pipeline.Retry, boom
	}, sink)

	assert.ErrorIs(t, r.Handle(context.Background(), []byte(`{}`)), boom)
	sink.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRunner_DropRecordsDeadLetterAndAcks(t *testing.T) {
	sink := new(MockDeadLetterSink)
	sink.On("Save", mock.Anything, mock.AnythingOfType("*store.DeadLetter")).Return(nil)

	r := NewRunner("resume_queue", func(ctx context.Context, body []byte) (pipeline.Outcome, error) {
		return pipeline.Drop, errors.New("missing required field: resume_path")
	}, sink)

	assert.NoError(t, r.Handle(context.Background(), []byte(`{"x":1}`)))

	require.Len(t, sink.Calls, 1)
	dl := sink.Calls[0].Arguments.Get(1).(*store.DeadLetter)
	assert.Equal(t, "resume_queue", dl.Queue)
	assert.Equal(t, "missing required field: resume_path", dl.Error)
	assert.JSONEq(t, `{"x":1}`, string(dl.Payload))
}

func TestRunner_DropWrapsNonJSONBody(t *testing.T) {
	sink := new(MockDeadLetterSink)
	sink.On("Save", mock.Anything, mock.Anything).Return(nil)

	r := NewRunner("job_desc_queue", func(ctx context.Context, body []byte) (pipeline.Outcome, error) {
		return pipeline.Drop, errors.New("decode failed")
	}, sink)

	require.NoError(t, r.Handle(context.Background(), []byte("not json at all")))

	dl := sink.Calls[0].Arguments.Get(1).(*store.DeadLetter)
	assert.True(t, json.Valid(dl.Payload))
	var wrapped string
	require.NoError(t, json.Unmarshal(dl.Payload, &wrapped))
	assert.Equal(t, "not json at all", wrapped)
}

func TestRunner_DeadLetterSaveFailureStillAcks(t *testing.T) {
	sink := new(MockDeadLetterSink)
	sink.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	r := NewRunner("email_queue", func(ctx context.Context, body []byte) (pipeline.Outcome, error) {
		return pipeline.Drop, errors.New("bad message")
	}, sink)

	assert.NoError(t, r.Handle(context.Background(), []byte(`{}`)))
}
