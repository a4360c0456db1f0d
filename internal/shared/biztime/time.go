// Package biztime provides business-timezone time calculations.
// All storage and transport use UTC; the business timezone is only used to
// compute day boundaries.
//
// Schedule queries use a "logical day" that starts at 03:00 business time
// rather than midnight, so that late-night work before 03:00 still counts as
// the previous day's schedule.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Tokyo"

	// DefaultDayBoundaryHour is the hour (business time) at which a logical
	// day begins.
	DefaultDayBoundaryHour = 3
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error

	boundaryMu      sync.RWMutex
	dayBoundaryHour = DefaultDayBoundaryHour
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// SetDayBoundaryHour overrides the logical day boundary hour. Valid range is
// 0-23; values outside it are ignored.
func SetDayBoundaryHour(hour int) {
	if hour < 0 || hour > 23 {
		return
	}
	boundaryMu.Lock()
	dayBoundaryHour = hour
	boundaryMu.Unlock()
}

// DayBoundaryHour returns the configured logical day boundary hour.
func DayBoundaryHour() int {
	boundaryMu.RLock()
	defer boundaryMu.RUnlock()
	return dayBoundaryHour
}

// Location returns the business timezone location, auto-initializing with the
// default timezone when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToBizTimezone converts a UTC time to business timezone for display.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// SyncWindow is a one-logical-day [Start, End) range in UTC.
type SyncWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w SyncWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// LogicalDayStart returns the start (boundary hour, business time) of the
// logical day containing t, in UTC. Hours before the boundary belong to the
// previous logical day.
func LogicalDayStart(t time.Time) time.Time {
	boundary := DayBoundaryHour()
	bt := t.In(Location())
	if bt.Hour() < boundary {
		bt = bt.AddDate(0, 0, -1)
	}
	start := time.Date(bt.Year(), bt.Month(), bt.Day(), boundary, 0, 0, 0, Location())
	return start.UTC()
}

// SyncWindowFor computes the sync range for the logical day containing t,
// shifted by dayOffset days (-1 yesterday, 0 today, +1 tomorrow).
func SyncWindowFor(t time.Time, dayOffset int) SyncWindow {
	start := LogicalDayStart(t).In(Location()).AddDate(0, 0, dayOffset)
	end := start.AddDate(0, 0, 1)
	return SyncWindow{Start: start.UTC(), End: end.UTC()}
}
