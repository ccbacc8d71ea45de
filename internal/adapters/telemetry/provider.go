package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.trai.ch/aurdex/internal/core/ports"
)

// Setup installs a tracer provider that reports span durations through the
// logger. The returned shutdown function flushes pending spans.
func Setup(log ports.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewLogProcessor(log)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// LogProcessor implements sdktrace.SpanProcessor, surfacing finished spans
// as timing log lines. It stands in for a wire exporter; the index is a
// local tool and has nowhere to ship traces to.
type LogProcessor struct {
	log ports.Logger
}

// NewLogProcessor returns a new LogProcessor.
func NewLogProcessor(log ports.Logger) *LogProcessor {
	return &LogProcessor{log: log}
}

// OnStart is called when a span starts.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the finished span with its duration.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.log == nil {
		return
	}
	p.log.Info("span finished",
		"name", s.Name(),
		"duration", s.EndTime().Sub(s.StartTime()).String(),
	)
}

// ForceFlush does nothing; OnEnd logs synchronously.
func (p *LogProcessor) ForceFlush(_ context.Context) error { return nil }

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(_ context.Context) error { return nil }
