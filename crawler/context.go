package crawler

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"go.uber.org/zap"
)

type ContextKey string

const RunIDKey ContextKey = "run_id"

// WithRunID tags ctx with the identifier of a crawl run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RunIDKey, id)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// GetContextLogger adds the run ID carried by ctx to baseLogger.
func GetContextLogger(ctx context.Context, baseLogger *zap.Logger) *zap.Logger {
	if id := GetRunID(ctx); id != "" {
		return baseLogger.With(zap.String(string(RunIDKey), id))
	}
	return baseLogger
}

func GenerateRunID() string {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(randomBytes)
}
