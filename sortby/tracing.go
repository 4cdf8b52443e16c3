package sortby

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/amp-sortby/sortby"

func startSortSpan(ctx context.Context, cfg config, steps int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "sortby.sort",
		trace.WithAttributes(
			attribute.String("sortby.name", cfg.name),
			attribute.Int("sortby.steps", steps),
			attribute.Int("sortby.parallelism", cfg.parallelism),
			attribute.Bool("sortby.key_cache", cfg.cacheKeys),
		))
}

func endSortSpan(span trace.Span, elements int, err error) {
	span.SetAttributes(attribute.Int("sortby.elements", elements))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
