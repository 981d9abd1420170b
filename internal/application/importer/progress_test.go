package importer

import (
	"sync"
	"testing"

	"github.com/ftsampaio/sales-import/internal/domain/importjob"
)

func TestTrackerBeginIsExclusive(t *testing.T) {
	t.Parallel()

	tr := newTracker("sales")
	if !tr.begin("run-1") {
		t.Fatal("first begin must succeed")
	}
	if tr.begin("run-2") {
		t.Fatal("second begin while running must be rejected")
	}

	tr.complete()
	if !tr.begin("run-3") {
		t.Fatal("begin after terminal state must succeed")
	}
}

func TestTrackerBeginResetsCounters(t *testing.T) {
	t.Parallel()

	tr := newTracker("sales")
	tr.begin("run-1")
	tr.success()
	tr.failure("123", "boom")
	tr.setTotal(10)
	tr.fail("fatal")

	tr.begin("run-2")
	snap := tr.snapshot()
	if snap.Processed != 0 || snap.Succeeded != 0 || snap.Failed != 0 || snap.Total != 0 {
		t.Fatalf("counters not reset: %+v", snap)
	}
	if snap.LastError != "" || len(snap.RecentFailures) != 0 {
		t.Fatalf("failure state not reset: %+v", snap)
	}
	if snap.RunID != "run-2" {
		t.Fatalf("unexpected run id: %s", snap.RunID)
	}
}

func TestTrackerCountInvariantUnderConcurrentReads(t *testing.T) {
	t.Parallel()

	tr := newTracker("sales")
	tr.begin("run-1")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			snap := tr.snapshot()
			if snap.Processed != snap.Succeeded+snap.Failed {
				t.Errorf("torn snapshot: processed=%d succeeded=%d failed=%d",
					snap.Processed, snap.Succeeded, snap.Failed)
				return
			}
		}
	}()

	for i := 0; i < 5000; i++ {
		if i%5 == 0 {
			tr.failure("id", "reason")
		} else {
			tr.success()
		}
	}
	close(done)
	wg.Wait()

	snap := tr.snapshot()
	if snap.Processed != 5000 {
		t.Fatalf("expected 5000 processed, got %d", snap.Processed)
	}
	if snap.Processed != snap.Succeeded+snap.Failed {
		t.Fatalf("final invariant broken: %+v", snap)
	}
}

func TestTrackerBoundsStoredFailures(t *testing.T) {
	t.Parallel()

	tr := newTracker("sales")
	tr.begin("run-1")
	for i := 0; i < maxStoredFailures+50; i++ {
		tr.failure("id", "reason")
	}

	snap := tr.snapshot()
	if len(snap.RecentFailures) != maxStoredFailures {
		t.Fatalf("expected %d stored failures, got %d", maxStoredFailures, len(snap.RecentFailures))
	}
	if snap.Failed != maxStoredFailures+50 {
		t.Fatalf("failure counter must keep counting, got %d", snap.Failed)
	}
}

func TestSnapshotCopiesFailures(t *testing.T) {
	t.Parallel()

	tr := newTracker("sales")
	tr.begin("run-1")
	tr.failure("1", "first")

	snap := tr.snapshot()
	snap.RecentFailures[0].Reason = "mutated"

	if got := tr.snapshot().RecentFailures[0].Reason; got != "first" {
		t.Fatalf("snapshot must not alias internal state, got %q", got)
	}
	if tr.snapshot().State != importjob.StateRunning {
		t.Fatal("unexpected state")
	}
}
