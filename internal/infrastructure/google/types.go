package google

// Wire types for the calendar and tasks endpoints. Only the fields the sync
// engine reads or writes are modeled.

// EventDateTime is either a timed instant (DateTime set) or an all-day date
// (Date set).
type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// AllDay reports whether the value carries no time-of-day component.
func (d *EventDateTime) AllDay() bool {
	return d != nil && d.DateTime == "" && d.Date != ""
}

// Event is a calendar event.
type Event struct {
	ID          string         `json:"id,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	ColorID     string         `json:"colorId,omitempty"`
	Status      string         `json:"status,omitempty"`
	Start       *EventDateTime `json:"start,omitempty"`
	End         *EventDateTime `json:"end,omitempty"`
}

type eventListResponse struct {
	Items         []*Event `json:"items"`
	NextPageToken string   `json:"nextPageToken"`
}

// TaskList is a remote task list.
type TaskList struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

type taskListsResponse struct {
	Items         []*TaskList `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

// TaskItem is one item inside a remote task list.
type TaskItem struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status,omitempty"`
	Due    string `json:"due,omitempty"`
}

// Completed reports the remote completion state.
func (t *TaskItem) Completed() bool {
	return t.Status == "completed"
}

type taskItemsResponse struct {
	Items         []*TaskItem `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}
