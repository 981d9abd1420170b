package importer

import (
	"sync"
	"time"

	"github.com/ftsampaio/sales-import/internal/domain/importjob"
)

const maxStoredFailures = 100

// tracker holds the live state of one entity type's import job. The run loop
// writes it while pollers read it, so every access goes through the mutex and
// reads hand out copies only.
type tracker struct {
	mu   sync.Mutex
	snap importjob.Snapshot
}

func newTracker(entityType string) *tracker {
	return &tracker{snap: importjob.Snapshot{
		EntityType: entityType,
		State:      importjob.StateIdle,
	}}
}

// begin atomically claims the tracker for a new run. It returns false without
// touching anything when a run is already active; otherwise it resets all
// counters and enters the running state.
func (t *tracker) begin(runID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.State == importjob.StateRunning {
		return false
	}

	now := time.Now()
	t.snap = importjob.Snapshot{
		EntityType: t.snap.EntityType,
		RunID:      runID,
		State:      importjob.StateRunning,
		StartedAt:  &now,
	}
	return true
}

func (t *tracker) setTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Total = total
}

func (t *tracker) success() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Processed++
	t.snap.Succeeded++
}

func (t *tracker) failure(externalID, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Processed++
	t.snap.Failed++
	if len(t.snap.RecentFailures) < maxStoredFailures {
		t.snap.RecentFailures = append(t.snap.RecentFailures, importjob.Failure{
			ExternalID: externalID,
			Reason:     reason,
		})
	}
}

func (t *tracker) unresolvedCategory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.UnresolvedCategories++
}

func (t *tracker) complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.snap.State = importjob.StateCompleted
	t.snap.FinishedAt = &now
}

func (t *tracker) fail(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.snap.State = importjob.StateFailed
	t.snap.FinishedAt = &now
	t.snap.LastError = reason
}

// snapshot returns a consistent copy of the job state, safe to hand to a
// poller while the run loop keeps mutating the tracker.
func (t *tracker) snapshot() importjob.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.snap
	if len(t.snap.RecentFailures) > 0 {
		snap.RecentFailures = make([]importjob.Failure, len(t.snap.RecentFailures))
		copy(snap.RecentFailures, t.snap.RecentFailures)
	}
	return snap
}
