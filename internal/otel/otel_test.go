package otel

import (
	"context"
	"errors"
	"testing"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	runid "github.com/hanpama/gqlshape/internal/runid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSubscribeRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	bus := eventbus.New()
	Subscribe(bus, tp.Tracer("test"))

	ctx, _ := runid.NewContext(context.Background())
	eventbus.Publish(ctx, bus, events.RunStart{Fragments: 1, Operations: 1})
	eventbus.Publish(ctx, bus, events.DefinitionStart{Kind: "fragment", Name: "UserFields"})
	eventbus.Publish(ctx, bus, events.DefinitionFinish{Kind: "fragment", Name: "UserFields", Declarations: 1, Branches: 1})
	eventbus.Publish(ctx, bus, events.DefinitionStart{Kind: "operation", Name: "Me"})
	eventbus.Publish(ctx, bus, events.DefinitionFinish{Kind: "operation", Name: "Me", Err: errors.New("boom")})
	eventbus.Publish(ctx, bus, events.RunFinish{Declarations: 1, Errors: []error{errors.New("boom")}})

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, "gqlshape.fragment", spans[0].Name())
	require.Equal(t, "gqlshape.operation", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)
	require.Equal(t, "gqlshape.generate", spans[2].Name())

	run := spans[2].SpanContext().SpanID()
	require.Equal(t, run, spans[0].Parent().SpanID())
	require.Equal(t, run, spans[1].Parent().SpanID())
}

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), eventbus.New(), "", "gqlshape")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
