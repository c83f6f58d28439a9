package session

import (
	"time"

	"photosift/internal/inventory"
)

// Status represents the lifecycle of a session item.
type Status string

const (
	// StatusPending items are waiting for a decision.
	StatusPending Status = "pending"
	// StatusDeferred items were set aside and return to the queue after the
	// pending pool drains.
	StatusDeferred Status = "deferred"
	// StatusTrashed, StatusKept, and StatusSkipped are terminal.
	StatusTrashed Status = "trashed"
	StatusKept    Status = "kept"
	StatusSkipped Status = "skipped"
)

// Terminal reports whether no further decision can be applied to the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusTrashed, StatusKept, StatusSkipped:
		return true
	}
	return false
}

// Decision is the action a user applies to a pending item.
type Decision string

const (
	DecisionTrash Decision = "trash"
	DecisionKeep  Decision = "keep"
	DecisionSkip  Decision = "skip"
	DecisionDefer Decision = "defer"
)

// ParseDecision maps a decision name to its Decision value.
func ParseDecision(value string) (Decision, bool) {
	switch Decision(value) {
	case DecisionTrash, DecisionKeep, DecisionSkip, DecisionDefer:
		return Decision(value), true
	}
	return "", false
}

func (d Decision) status() Status {
	switch d {
	case DecisionTrash:
		return StatusTrashed
	case DecisionKeep:
		return StatusKept
	case DecisionSkip:
		return StatusSkipped
	case DecisionDefer:
		return StatusDeferred
	}
	return ""
}

// Record identifies a persisted session.
type Record struct {
	ID         string
	BackupRoot string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Item represents one backup file under triage, persisted in SQLite.
type Item struct {
	ID           int64
	SessionID    string
	RelativePath string
	AbsolutePath string
	IdentityKey  string
	Kind         inventory.Kind
	SizeBytes    int64
	ModTime      time.Time
	Status       Status
	ErrorMessage string
	TrashPath    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary aggregates per-status counts for a session.
type Summary struct {
	Pending  int
	Deferred int
	Trashed  int
	Kept     int
	Skipped  int
	Errors   int
}

// Total returns the number of items in the session.
func (s Summary) Total() int {
	return s.Pending + s.Deferred + s.Trashed + s.Kept + s.Skipped
}

// Remaining returns the number of items still awaiting a terminal decision.
func (s Summary) Remaining() int {
	return s.Pending + s.Deferred
}
