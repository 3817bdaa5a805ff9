package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const opIDKey ctxKey = "op_id"

// NewOpID returns a fresh id for scoping the log output of one
// top-level ledger operation.
func NewOpID() string {
	return uuid.New().String()
}

func WithOpID(ctx context.Context, opID string) context.Context {
	return context.WithValue(ctx, opIDKey, opID)
}

func OpIDFrom(ctx context.Context) string {
	if v := ctx.Value(opIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// FromCtx returns logger with op_id automatically added
func FromCtx(ctx context.Context) *zap.Logger {
	opID := OpIDFrom(ctx)
	if opID == "" {
		return L()
	}
	return L().With(zap.String("op_id", opID))
}
