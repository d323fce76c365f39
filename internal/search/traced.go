package search

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/tracing"
)

// TracedExecutor records one client span per search.
type TracedExecutor struct {
	next   Executor
	tracer trace.Tracer
}

func NewTracedExecutor(next Executor, tracer trace.Tracer) *TracedExecutor {
	return &TracedExecutor{next: next, tracer: tracer}
}

// Search implements Executor.
func (t *TracedExecutor) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	ctx, span := t.tracer.Start(ctx, tracing.SpanSearch,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(tracing.AttrServiceName, req.Service),
			attribute.String(tracing.AttrServiceType, string(req.Type)),
			attribute.String(tracing.AttrServiceURL, req.URL),
			attribute.String(tracing.AttrSearchText, req.Text),
			attribute.Int(tracing.AttrSearchStart, req.StartPosition),
			attribute.Int(tracing.AttrSearchSize, req.PageSize),
			attribute.Int64(tracing.AttrSearchToken, int64(req.Token)), // #nosec G115 -- tokens stay far below MaxInt64
		),
	)
	defer span.End()

	result, err := t.next.Search(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(
			attribute.String(tracing.AttrErrorCode, Code(err)),
			attribute.String(tracing.AttrErrorMessage, err.Error()),
		)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrMatched, result.NumberOfRecordsMatched),
		attribute.Int(tracing.AttrReturned, result.NumberOfRecordsReturned),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}
