// Package dto defines the request/response shapes of the sync engine's
// exposed operations.
package dto

import "time"

// Push actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// PushTaskInput is one internal task handed to the push synchronizer.
// ExternalEventID is the caller's possibly-stale view of the link; the
// synchronizer re-reads the durable links and overrides it.
type PushTaskInput struct {
	ID              string    `json:"id" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Notes           string    `json:"notes"`
	Category        string    `json:"category" binding:"omitempty,oneof=work personal meeting focus"`
	StartAt         time.Time `json:"start_at" binding:"required"`
	EndAt           time.Time `json:"end_at"`
	Completed       bool      `json:"completed"`
	ExternalEventID string    `json:"external_event_id"`
}

// PushRequest is the push operation request body.
type PushRequest struct {
	CalendarID string          `json:"calendar_id" binding:"required"`
	Tasks      []PushTaskInput `json:"tasks" binding:"required,min=1,dive"`
}

// PushItemResult reports the remote outcome for one task.
type PushItemResult struct {
	InternalID string `json:"internal_id"`
	ExternalID string `json:"external_id"`
	Action     string `json:"action"`
}

// PushItemError reports a per-task failure that did not abort the batch.
type PushItemError struct {
	InternalID string `json:"internal_id"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
}

// PushResult is the push operation response. The caller is responsible for
// persisting the returned external ids through its own versioned save path.
type PushResult struct {
	Results []PushItemResult `json:"results"`
	Errors  []PushItemError  `json:"errors"`
}

// SyncWindowInfo reports the computed logical-day range.
type SyncWindowInfo struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ClassifiedEvent is one calendar event inside the sync window.
type ClassifiedEvent struct {
	ExternalID         string    `json:"external_id"`
	CalendarID         string    `json:"calendar_id"`
	Title              string    `json:"title"`
	Category           string    `json:"category,omitempty"`
	StartAt            time.Time `json:"start_at"`
	EndAt              time.Time `json:"end_at"`
	InternalTaskID     string    `json:"internal_task_id,omitempty"`
	InternallyAuthored bool      `json:"internally_authored"`
}

// CalendarWindowResult is the calendar pull response.
type CalendarWindowResult struct {
	Window SyncWindowInfo    `json:"window"`
	Events []ClassifiedEvent `json:"events"`
}

// LinkedTaskStatus is a remote task item recognized as internally authored;
// its completion state flows back to the internal task.
type LinkedTaskStatus struct {
	InternalID string `json:"internal_id"`
	ExternalID string `json:"external_id"`
	Completed  bool   `json:"completed"`
}

// UnlinkedTask is a remote task item authored outside the system, visible
// for optional adoption.
type UnlinkedTask struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Category   string `json:"category,omitempty"`
	Completed  bool   `json:"completed"`
}

// TaskSyncStatusResult is the task pull response.
type TaskSyncStatusResult struct {
	ListID   string             `json:"list_id"`
	Linked   []LinkedTaskStatus `json:"linked"`
	Unlinked []UnlinkedTask     `json:"unlinked"`
}

// ConnectResponse carries the OAuth consent URL for the connect flow.
type ConnectResponse struct {
	AuthURL string `json:"auth_url"`
}

// ApplyLinksRequest asks the caller-side apply path to persist a push
// result's external ids.
type ApplyLinksRequest struct {
	CalendarID string           `json:"calendar_id" binding:"required"`
	Results    []PushItemResult `json:"results" binding:"required,min=1,dive"`
}

// ApplyLinksResult reports the caller-side persistence of a push result.
type ApplyLinksResult struct {
	Applied   int      `json:"applied"`
	Conflicts []string `json:"conflicts,omitempty"`
}
