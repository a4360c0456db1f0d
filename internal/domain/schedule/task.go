// Package schedule holds the task-side domain model for the external
// calendar/task sync engine: internal tasks, their links to remote objects,
// and the category codec shared by push and pull.
package schedule

import "time"

// Task is the internal task as seen by the sync engine. Version backs the
// optimistic-locking save path owned by the caller of the sync engine.
type Task struct {
	ID        string
	UserID    uint
	Title     string
	Notes     string
	Category  Category
	StartAt   time.Time
	EndAt     time.Time
	Completed bool
	// ExternalEventID is the caller's view of the linked remote object. It
	// may be stale; the push path re-reads links and overrides it.
	ExternalEventID string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExternalLink associates one internal task with one remote object inside a
// container (calendar or task list). At most one active link may exist per
// (task, container) pair; it is the sole basis for the update-vs-create
// decision on the next push.
type ExternalLink struct {
	ID                  uint
	InternalTaskID      string
	ExternalObjectID    string
	ExternalContainerID string
	Category            Category
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
