package internal_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dice-group/sparql-transactional-test/internal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskGroupCollectsOneResultPerTask(t *testing.T) {
	g := internal.NewTaskGroup[int](4, discardLogger(), func(index int, recovered any) int { return -1 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := g.Start(ctx, func(ctx context.Context, index int) int {
		return index * 2
	})

	seen := make(map[int]bool)
	for v := range out {
		seen[v] = true
	}
	for _, want := range []int{0, 2, 4, 6} {
		if !seen[want] {
			t.Fatalf("missing result %d in %v", want, seen)
		}
	}
}

func TestTaskGroupRecoversPanics(t *testing.T) {
	g := internal.NewTaskGroup[string](1, discardLogger(), func(index int, recovered any) string {
		return "recovered"
	})

	out := g.Start(context.Background(), func(ctx context.Context, index int) string {
		panic("boom")
	})

	select {
	case v := <-out:
		if v != "recovered" {
			t.Fatalf("expected recovered result, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("task group did not report a result for the panicking task")
	}
}

func TestTaskGroupStopsOnCancel(t *testing.T) {
	g := internal.NewTaskGroup[int](2, discardLogger(), func(index int, recovered any) int { return -1 })

	ctx, cancel := context.WithCancel(context.Background())
	out := g.Start(ctx, func(ctx context.Context, index int) int {
		<-ctx.Done()
		return index
	})
	cancel()

	count := 0
	for range out {
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 results after cancellation, got %d", count)
	}
}
