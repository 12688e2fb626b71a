package log

import "context"

type ctxKey struct{ name string }

var (
	requestIDKey = ctxKey{"request_id"}
	fieldsKey    = ctxKey{"fields"}
)

// WithRequestID attaches the request correlation ID to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation ID, or "" when there is none.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields returns a context whose logged entries carry keysAndValues in
// addition to any fields already attached. The parent's map is not mutated.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	parent := FieldsFromContext(ctx)
	merged := make(map[string]any, len(parent)+len(keysAndValues)/2)
	for k, v := range parent {
		merged[k] = v
	}
	for i := 1; i < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i-1].(string); ok {
			merged[key] = keysAndValues[i]
		}
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// WithSubmission tags ctx with the submission being processed.
func WithSubmission(ctx context.Context, id string, rescan int) context.Context {
	return WithFields(ctx, "submission_id", id, "rescan", rescan)
}

// FieldsFromContext returns the attached fields, or nil.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}
