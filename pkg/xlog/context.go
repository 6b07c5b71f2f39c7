package xlog

import (
	"context"
)

type sinkKey struct{}

// FromContext returns the Sink stored in ctx, falling back to Current.
// ok is false when neither is available.
func FromContext(ctx context.Context) (s Sink, ok bool) {
	if s, ok := ctx.Value(sinkKey{}).(Sink); ok && s != nil {
		return s, true
	}
	return Current()
}

// WithContext stores the Sink in context.
func WithContext(ctx context.Context, s Sink) context.Context {
	return context.WithValue(ctx, sinkKey{}, s)
}
