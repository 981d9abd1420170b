package importjob

import "time"

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Failure records why one sale was not imported. Only a bounded number of
// recent failures is retained per run.
type Failure struct {
	ExternalID string
	Reason     string
}

// Snapshot is an immutable, internally consistent view of an import job,
// produced for pollers at any point of the run.
type Snapshot struct {
	EntityType string
	RunID      string
	State      State
	Total      int
	Processed  int
	Succeeded  int
	Failed     int

	// UnresolvedCategories counts items whose category code had no match in
	// the reference table. Data-quality signal, not an error.
	UnresolvedCategories int

	StartedAt      *time.Time
	FinishedAt     *time.Time
	LastError      string
	RecentFailures []Failure
}

// Active reports whether the run loop is still executing.
func (s Snapshot) Active() bool {
	return s.State == StateRunning
}

// Progress is the completion percentage, clamped to 0-100. While the total
// is unknown it stays at 0 for a running job; a completed job always reports
// 100 regardless of what the source claimed as total.
func (s Snapshot) Progress() int {
	if s.State == StateCompleted {
		return 100
	}
	if s.Total <= 0 {
		return 0
	}
	pct := s.Processed * 100 / s.Total
	if pct > 100 {
		pct = 100
	}
	return pct
}
