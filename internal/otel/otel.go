package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	runid "github.com/hanpama/gqlshape/internal/runid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers to bus.
// If endpoint is empty, no telemetry is configured.
func Setup(ctx context.Context, bus *eventbus.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	Subscribe(bus, otel.Tracer("gqlshape"))
	return tp.Shutdown, nil
}

// Subscribe records one span per generation run and one child span per
// resolved definition.
func Subscribe(bus *eventbus.Bus, tracer trace.Tracer) {
	s := &subscriber{tracer: tracer}
	s.register(bus)
}

type subscriber struct {
	tracer   trace.Tracer
	runSpans sync.Map // run id -> trace.Span
	defSpans sync.Map // run id + definition -> trace.Span
}

func definitionKey(ctx context.Context, kind, name string) string {
	rid, _ := runid.FromContext(ctx)
	return rid + "/" + kind + "/" + name
}

func (s *subscriber) register(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, func(ctx context.Context, e events.RunStart) {
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "gqlshape.generate")
		span.SetAttributes(
			attribute.String("gqlshape.run_id", rid),
			attribute.Int("gqlshape.fragments", e.Fragments),
			attribute.Int("gqlshape.operations", e.Operations),
		)
		s.runSpans.Store(rid, span)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.RunFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.runSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("gqlshape.declarations", e.Declarations),
			attribute.Int("gqlshape.error_count", len(e.Errors)),
		)
		if len(e.Errors) > 0 {
			span.SetStatus(codes.Error, "generation failed")
		}
		span.End()
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.DefinitionStart) {
		rid, _ := runid.FromContext(ctx)
		parent := ctx
		if v, ok := s.runSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "gqlshape."+e.Kind)
		span.SetAttributes(attribute.String("graphql.definition.name", e.Name))
		s.defSpans.Store(definitionKey(ctx, e.Kind, e.Name), span)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.DefinitionFinish) {
		v, ok := s.defSpans.LoadAndDelete(definitionKey(ctx, e.Kind, e.Name))
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("gqlshape.declarations", e.Declarations),
			attribute.Int("gqlshape.branches", e.Branches),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		}
		span.End()
	})
}
