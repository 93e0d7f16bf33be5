package core

import "context"

type contextKey string

const (
	suppressOutputKey contextKey = "suppressOutput"
	readOnlyKey       contextKey = "readOnly"
)

// WithSuppressOutput marks ctx so report passes return results without
// writing them.
func WithSuppressOutput(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressOutputKey, true)
}

// WithReadOnly marks ctx so report passes record neither history nor telemetry.
func WithReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey, true)
}

func shouldSuppressOutput(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressOutputKey).(bool)
	return ok && suppress
}

func isReadOnly(ctx context.Context) bool {
	readOnly, ok := ctx.Value(readOnlyKey).(bool)
	return ok && readOnly
}
