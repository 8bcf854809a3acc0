package correlation

import (
	"context"

	"github.com/google/uuid"
)

type key int

const contextKey key = 0

// New returns a fresh correlation id for a message entering the pipeline.
func New() string {
	return uuid.New().String()
}

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey, id)
}

// From returns the correlation id carried by ctx, or "" if none is set.
func From(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey).(string); ok {
		return id
	}
	return ""
}
