package tracing

import (
	"context"

	"github.com/smallbiznis/catalogview/internal/product/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/smallbiznis/catalogview/gateway"

// Observer opens a client span around every gateway call.
type Observer struct {
	tracer trace.Tracer
}

func NewObserver(tp *sdktrace.TracerProvider) *Observer {
	return &Observer{tracer: tp.Tracer(instrumentationName)}
}

var _ domain.Observer = (*Observer)(nil)

func (o *Observer) RequestStarted(ctx context.Context, info domain.RequestInfo) context.Context {
	ctx, _ = o.tracer.Start(ctx, "catalog."+info.Op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", info.Method),
			attribute.String("http.route", info.Path),
			attribute.String("request_id", info.RequestID),
		),
	)
	return ctx
}

func (o *Observer) RequestFinished(ctx context.Context, out domain.Outcome) {
	span := trace.SpanFromContext(ctx)
	if out.Status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", out.Status))
	}
	if out.Err != nil {
		span.SetAttributes(attribute.String("error.kind", domain.KindOf(out.Err).Error()))
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, domain.KindOf(out.Err).Error())
	}
	span.End()
}
