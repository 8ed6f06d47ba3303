package common

import (
	"context"
)

type contextKey string

const contextKeyBatchID contextKey = "batch_id"

// WithBatchID tags a context with the processing batch it belongs to,
// so per-document log lines can be correlated across stages.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, contextKeyBatchID, batchID)
}

// BatchIDFromContext extracts the batch ID, or "" when outside a batch.
func BatchIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyBatchID).(string); ok {
		return id
	}
	return ""
}
