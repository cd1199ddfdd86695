package eventbus

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type started struct{ Name string }

type finished struct{ Name string }

func TestPublishDispatchesByType(t *testing.T) {
	b := New()
	var got []string
	Subscribe(b, func(_ context.Context, e started) { got = append(got, "first:"+e.Name) })
	Subscribe(b, func(_ context.Context, e started) { got = append(got, "second:"+e.Name) })
	Subscribe(b, func(_ context.Context, e finished) { got = append(got, "finished:"+e.Name) })

	Publish(context.Background(), b, started{Name: "a"})
	Publish(context.Background(), b, finished{Name: "a"})
	Publish(context.Background(), b, "ignored")

	want := []string{"first:a", "second:a", "finished:a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var first, second int
	unsubscribe := Subscribe(b, func(context.Context, started) { first++ })
	Subscribe(b, func(context.Context, started) { second++ })

	Publish(context.Background(), b, started{})
	unsubscribe()
	unsubscribe()
	Publish(context.Background(), b, started{})

	require.Equal(t, 1, first)
	require.Equal(t, 2, second)
}

func TestHandlersMayPublish(t *testing.T) {
	b := New()
	var got []string
	Subscribe(b, func(ctx context.Context, e started) { Publish(ctx, b, finished(e)) })
	Subscribe(b, func(_ context.Context, e finished) { got = append(got, e.Name) })

	Publish(context.Background(), b, started{Name: "nested"})
	require.Equal(t, []string{"nested"}, got)
}

func TestNilBus(t *testing.T) {
	var b *Bus
	unsubscribe := Subscribe(b, func(context.Context, started) { t.Fatal("unexpected event") })
	Publish(context.Background(), b, started{})
	unsubscribe()
}
