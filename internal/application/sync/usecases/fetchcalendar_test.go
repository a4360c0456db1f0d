package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	"github.com/flowdesk-inc/flowdesk/internal/shared/biztime"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

func timedEvent(id, summary string, start time.Time) *google.Event {
	return &google.Event{
		ID:      id,
		Summary: summary,
		Status:  "confirmed",
		Start:   &google.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &google.EventDateTime{DateTime: start.Add(time.Hour).Format(time.RFC3339)},
	}
}

func newCalendarUC(calendar *fakeCalendarAPI, now time.Time) *FetchCalendarWindowUseCase {
	uc := NewFetchCalendarWindowUseCase(&fakeTokenProvider{token: "tok"}, calendar, logger.NewLogger())
	uc.now = func() time.Time { return now }
	return uc
}

func TestFetchCalendarWindow_RequiresCalendarIDs(t *testing.T) {
	uc := newCalendarUC(&fakeCalendarAPI{}, time.Now())
	_, err := uc.Execute(context.Background(), 1, nil, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestFetchCalendarWindow_ClassifiesAndSorts(t *testing.T) {
	biztime.MustInit("Asia/Tokyo")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	later := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	authored := timedEvent("ev-mine", "\U0001F4BC write report", earlier)
	authored.Description = "notes [fd:task:t1]"
	authored.ColorID = "9"

	foreign := timedEvent("ev-foreign", "<b>external</b> meeting", later)

	calendar := &fakeCalendarAPI{
		listFn: func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
			return []*google.Event{foreign, authored}, nil
		},
	}
	uc := newCalendarUC(calendar, now)

	result, err := uc.Execute(context.Background(), 1, []string{"cal-1"}, 0)
	require.NoError(t, err)
	require.Len(t, result.Events, 2)

	// Sorted ascending by start time.
	assert.Equal(t, "ev-mine", result.Events[0].ExternalID)
	assert.Equal(t, "ev-foreign", result.Events[1].ExternalID)

	mine := result.Events[0]
	assert.True(t, mine.InternallyAuthored)
	assert.Equal(t, "t1", mine.InternalTaskID)
	assert.Equal(t, string(schedule.CategoryWork), mine.Category)
	assert.Equal(t, "write report", mine.Title, "glyph stripped from display title")

	theirs := result.Events[1]
	assert.False(t, theirs.InternallyAuthored)
	assert.Empty(t, theirs.InternalTaskID)
	assert.NotContains(t, theirs.Title, "<b>", "markup sanitized from external titles")
}

func TestFetchCalendarWindow_DeduplicatesAcrossCalendars(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	shared := timedEvent("ev-shared", "shared event", now)

	calendar := &fakeCalendarAPI{
		listFn: func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
			return []*google.Event{shared}, nil
		},
	}
	uc := newCalendarUC(calendar, now)

	result, err := uc.Execute(context.Background(), 1, []string{"cal-1", "cal-2"}, 0)
	require.NoError(t, err)
	assert.Len(t, result.Events, 1, "the same event under two calendars appears once")
}

func TestFetchCalendarWindow_SkipsNonScheduleEvents(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	allDay := &google.Event{
		ID:     "ev-allday",
		Status: "confirmed",
		Start:  &google.EventDateTime{Date: "2026-03-10"},
	}
	cancelled := timedEvent("ev-cancelled", "gone", now)
	cancelled.Status = "cancelled"
	noStart := &google.Event{ID: "ev-nostart", Status: "confirmed"}
	kept := timedEvent("ev-kept", "kept", now)

	calendar := &fakeCalendarAPI{
		listFn: func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
			return []*google.Event{allDay, cancelled, noStart, kept}, nil
		},
	}
	uc := newCalendarUC(calendar, now)

	result, err := uc.Execute(context.Background(), 1, []string{"cal-1"}, 0)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "ev-kept", result.Events[0].ExternalID)
}

func TestFetchCalendarWindow_PartialFailureSkipsCalendar(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kept := timedEvent("ev-kept", "kept", now)

	calendar := &fakeCalendarAPI{
		listFn: func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
			if calendarID == "cal-broken" {
				return nil, apperrors.NewRemoteForbiddenError("no access")
			}
			return []*google.Event{kept}, nil
		},
	}
	uc := newCalendarUC(calendar, now)

	result, err := uc.Execute(context.Background(), 1, []string{"cal-broken", "cal-ok"}, 0)
	require.NoError(t, err, "a single broken calendar must not fail the fetch")
	assert.Len(t, result.Events, 1)
}

func TestFetchCalendarWindow_AllCalendarsFailed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	calendar := &fakeCalendarAPI{
		listFn: func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
			return nil, apperrors.NewRemoteTransientError("down")
		},
	}
	uc := newCalendarUC(calendar, now)

	_, err := uc.Execute(context.Background(), 1, []string{"cal-1", "cal-2"}, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFetchCalendarWindow_UsesLogicalDayWindow(t *testing.T) {
	biztime.MustInit("Asia/Tokyo")
	// 02:30 JST on 3/10 = 17:30 UTC on 3/9; the logical day is still 3/9.
	now := time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC)

	var gotMin, gotMax time.Time
	calendar := &fakeCalendarAPI{
		listFn: func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
			gotMin, gotMax = timeMin, timeMax
			return nil, nil
		},
	}
	uc := newCalendarUC(calendar, now)

	result, err := uc.Execute(context.Background(), 1, []string{"cal-1"}, 0)
	require.NoError(t, err)

	want := biztime.SyncWindowFor(now, 0)
	assert.True(t, gotMin.Equal(want.Start))
	assert.True(t, gotMax.Equal(want.End))
	assert.True(t, result.Window.Start.Equal(want.Start))
	assert.True(t, result.Window.End.Equal(want.End))
}
