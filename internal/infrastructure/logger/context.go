package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	userIDKey
	jobKey
)

// WithContext stores a logger in ctx
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the stored logger, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.NewNop()
}

// WithRequestID records the HTTP request id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithUserID records the authenticated user id in ctx
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// WithJob records the background job name (sync_orders, credential_refresh...) in ctx
func WithJob(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, jobKey, job)
}

// GetRequestID returns the request id in ctx, if any
func GetRequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// GetUserID returns the user id in ctx, if any
func GetUserID(ctx context.Context) string { return stringValue(ctx, userIDKey) }

// GetJob returns the job name in ctx, if any
func GetJob(ctx context.Context) string { return stringValue(ctx, jobKey) }

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// GetTraceID returns the active span's trace id, if any
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the active span's id, if any
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasSpanID() {
		return ""
	}
	return sc.SpanID().String()
}

// L returns the context logger enriched with every id found in ctx.
// Background jobs and handlers both log through it.
func L(ctx context.Context) *zap.Logger {
	log := FromContext(ctx)
	fields := make([]zap.Field, 0, 5)
	for _, f := range []struct {
		key   string
		value string
	}{
		{"request_id", GetRequestID(ctx)},
		{"user_id", GetUserID(ctx)},
		{"job", GetJob(ctx)},
		{"trace_id", GetTraceID(ctx)},
		{"span_id", GetSpanID(ctx)},
	} {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// LOr is L with a fallback for contexts that carry no logger, such as
// calls made outside the HTTP and scheduler paths.
func LOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if _, ok := ctx.Value(loggerKey).(*zap.Logger); !ok && fallback != nil {
		ctx = WithContext(ctx, fallback)
	}
	return L(ctx)
}
