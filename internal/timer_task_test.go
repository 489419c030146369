package internal_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dice-group/sparql-transactional-test/internal"
)

func TestTimerTaskRunsImmediatelyThenPeriodically(t *testing.T) {
	var calls atomic.Int32
	var task internal.TimerTask
	task.Start(context.Background(), func(ctx context.Context) {
		calls.Add(1)
	}, 20*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	if calls.Load() < 1 {
		t.Fatal("expected at least one immediate invocation")
	}

	time.Sleep(60 * time.Millisecond)
	<-task.Stop()
	if got := calls.Load(); got < 3 {
		t.Fatalf("expected multiple periodic invocations, got %d", got)
	}
}

func TestTimerTaskStartDelayedWaitsForFirstPeriod(t *testing.T) {
	var calls atomic.Int32
	var task internal.TimerTask
	task.StartDelayed(context.Background(), func(ctx context.Context) {
		calls.Add(1)
	}, 30*time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatal("StartDelayed must not invoke the handler immediately")
	}

	time.Sleep(40 * time.Millisecond)
	<-task.Stop()
	if calls.Load() < 1 {
		t.Fatal("expected the handler to run after the first period elapsed")
	}
}

func TestTimerTaskDoneClosesOnSelfCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var task internal.TimerTask
	task.Start(ctx, func(ctx context.Context) {
		cancel()
	}, 5*time.Millisecond)

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("expected Done to close once the external context was canceled")
	}
}
