package ports

import "context"

// Span is a live tracing span.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Span interface {
	// End finishes the span.
	End()

	// RecordError attaches an error to the span.
	RecordError(err error)

	// SetAttribute attaches a key-value attribute to the span.
	SetAttribute(key string, value any)
}

// Tracer creates spans around store and engine operations.
type Tracer interface {
	// Start begins a span with the given name, returning a derived context.
	Start(ctx context.Context, name string) (context.Context, Span)
}
