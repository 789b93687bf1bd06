package sync

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/facets/internal/model"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return nil
}

func TestSchedulerStartStop(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()
	ms.views["inbox"] = &model.View{ID: "vw-1", Name: "inbox", Query: "filters=assignee:is:me", CreatedAt: now}
	ms.views["triage"] = &model.View{ID: "vw-2", Name: "triage", Query: "filters=status:is:open", CreatedAt: now}

	dest := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sched := NewScheduler(ms, []Destination{dest}, 50*time.Millisecond, logger)
	sched.Start()

	// Wait for at least the initial sync + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	// Verify last written data is valid JSONL.
	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}

	lines := nonEmptyLines(string(data))
	// 1 header + 2 views
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	ms := newMockStore()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sched := NewScheduler(ms, nil, time.Minute, logger)
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	ms := newMockStore()
	dest1 := &mockDestination{}
	dest2 := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sched := NewScheduler(ms, []Destination{dest1, dest2}, time.Second, logger)
	sched.Start()

	// Wait for the initial sync.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	if dest1.writes.Load() < 1 {
		t.Fatal("dest1 expected at least 1 write")
	}
	if dest2.writes.Load() < 1 {
		t.Fatal("dest2 expected at least 1 write")
	}
}

// failingDestination always fails; the scheduler must keep writing to the
// others.
type failingDestination struct{ calls atomic.Int64 }

func (d *failingDestination) Write(context.Context, []byte) error {
	d.calls.Add(1)
	return errListFailed
}

func TestSchedulerDestinationFailure(t *testing.T) {
	ms := newMockStore()
	bad := &failingDestination{}
	good := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sched := NewScheduler(ms, []Destination{bad, good}, time.Second, logger)
	sched.Start()
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	if bad.calls.Load() < 1 || good.writes.Load() < 1 {
		t.Fatalf("calls: bad=%d good=%d", bad.calls.Load(), good.writes.Load())
	}
}

func TestDestinationName(t *testing.T) {
	for _, tc := range []struct {
		dest Destination
		want string
	}{
		{&mockDestination{}, "3"},
		{NewGitDestination("/srv/repo", "views.jsonl", "main"), "git:/srv/repo/views.jsonl@main"},
		{&S3Destination{bucket: "b", key: "facets/views.jsonl"}, "s3://b/facets/views.jsonl"},
	} {
		if got := destinationName(3, tc.dest); got != tc.want {
			t.Errorf("destinationName(%T) = %q, want %q", tc.dest, got, tc.want)
		}
	}
}
