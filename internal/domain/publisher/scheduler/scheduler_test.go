package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingProcessor struct {
	calls atomic.Int64
}

func (c *countingProcessor) ProcessDuePost(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsProcessorPeriodically(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, 10*time.Millisecond, testLogger())

	s.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	s.Stop()

	// One immediate run plus at least a few ticks.
	if got := proc.calls.Load(); got < 3 {
		t.Errorf("expected at least 3 runs, got %d", got)
	}
}

func TestScheduler_StopPreventsFurtherRuns(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, 10*time.Millisecond, testLogger())

	s.Start(context.Background())
	time.Sleep(25 * time.Millisecond)
	s.Stop()

	after := proc.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := proc.calls.Load(); got != after {
		t.Errorf("processor ran after Stop: %d -> %d", after, got)
	}
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, time.Hour, testLogger())

	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()

	// A second Start must not spawn a second loop; one immediate run only.
	if got := proc.calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 run, got %d", got)
	}
}

func TestScheduler_ContextCancelStopsLoop(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(25 * time.Millisecond)
	cancel()
	time.Sleep(15 * time.Millisecond)

	after := proc.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := proc.calls.Load(); got != after {
		t.Errorf("processor ran after context cancel: %d -> %d", after, got)
	}
}
