package logger

import (
	"context"

	"go.uber.org/zap"
)

type invocationKey struct{}

// InvocationInfo identifies the invocation a log line belongs to
type InvocationInfo struct {
	ID        string
	Operation string
}

func (i InvocationInfo) fields() []zap.Field {
	fields := []zap.Field{zap.String("invocation_id", i.ID)}
	if i.Operation != "" {
		fields = append(fields, zap.String("operation", i.Operation))
	}
	return fields
}

// WithInvocation returns a context whose loggers carry the invocation fields
// Usage:
//
//	ctx = logger.WithInvocation(ctx, logger.InvocationInfo{ID: id, Operation: "issue_regular_card"})
//	logger.InfoCtx(ctx, "Card issued", ...)
func WithInvocation(ctx context.Context, info InvocationInfo) context.Context {
	return context.WithValue(ctx, invocationKey{}, info)
}

// InvocationFromContext returns the invocation info stored by WithInvocation
func InvocationFromContext(ctx context.Context) (InvocationInfo, bool) {
	info, ok := ctx.Value(invocationKey{}).(InvocationInfo)
	return info, ok
}
