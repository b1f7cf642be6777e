package tracing

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rtl-support-chatbot-be/pkg/rag"
)

// tracedProcessor wraps a QueryProcessor with an OpenTelemetry span.
// Composition instead of annotation: the wrapped operation has the
// identical signature and return values. Tracing is best-effort: any
// panic inside the instrumentation is swallowed and logged, and the
// query still executes untraced.
type tracedProcessor struct {
	next   rag.QueryProcessor
	tracer trace.Tracer
	logger *log.Logger
}

func NewTracedProcessor(next rag.QueryProcessor, logger *log.Logger) rag.QueryProcessor {
	return &tracedProcessor{
		next:   next,
		tracer: otel.Tracer("rag"),
		logger: logger,
	}
}

func (t *tracedProcessor) ProcessQuery(ctx context.Context, query string, history rag.History) (*rag.Response, error) {
	spanCtx, end := t.startSpan(ctx, query)

	start := time.Now()
	resp, err := t.next.ProcessQuery(spanCtx, query, history)
	end(time.Since(start), resp, err)

	return resp, err
}

// startSpan opens the span and returns a finish callback. Both halves
// are panic-guarded so a broken tracer provider can never fail a query.
func (t *tracedProcessor) startSpan(ctx context.Context, query string) (spanCtx context.Context, end func(time.Duration, *rag.Response, error)) {
	spanCtx = ctx
	end = func(time.Duration, *rag.Response, error) {}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Printf("[TRACE] Falling back to untraced execution: %v", r)
		}
	}()

	newCtx, span := t.tracer.Start(ctx, "rag.process_query",
		trace.WithAttributes(attribute.Int("rag.query_chars", len(query))),
	)

	spanCtx = newCtx
	end = func(elapsed time.Duration, resp *rag.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				t.logger.Printf("[TRACE] Failed to record span: %v", r)
			}
		}()
		span.SetAttributes(attribute.Int64("rag.duration_ms", elapsed.Milliseconds()))
		if resp != nil {
			span.SetAttributes(attribute.Int("rag.sources", len(resp.Sources)))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
	return spanCtx, end
}
