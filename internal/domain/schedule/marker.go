package schedule

import (
	"fmt"
	"regexp"
)

// The marker tags a remote object's notes/description with the internal task
// id that authored it. Remote items without a recognizable marker are treated
// as externally authored.
const markerFormat = "[fd:task:%s]"

var markerPattern = regexp.MustCompile(`\[fd:task:([A-Za-z0-9_-]+)\]`)

// EmbedTaskID returns the notes marker for an internal task id.
func EmbedTaskID(taskID string) string {
	return fmt.Sprintf(markerFormat, taskID)
}

// ExtractTaskID scans notes content for a marker and returns the embedded
// internal task id. The second return value is false when no marker is
// present, marking the remote item as externally authored.
func ExtractTaskID(notes string) (string, bool) {
	m := markerPattern.FindStringSubmatch(notes)
	if m == nil {
		return "", false
	}
	return m[1], true
}
