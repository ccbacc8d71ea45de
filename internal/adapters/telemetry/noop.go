package telemetry

import (
	"context"

	"go.trai.ch/aurdex/internal/core/ports"
)

// NewNoOpTracer returns a tracer that records nothing. Used when tracing is
// disabled.
func NewNoOpTracer() ports.Tracer {
	return noopTracer{}
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) SetAttribute(string, any) {}
