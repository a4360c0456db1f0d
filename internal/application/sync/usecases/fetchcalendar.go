package usecases

import (
	"context"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/shared/biztime"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// FetchCalendarWindowUseCase pulls events across the user's selected
// calendars inside one logical-day window, de-duplicates them by external
// event id, and classifies each as internally or externally authored.
type FetchCalendarWindowUseCase struct {
	tokens    TokenProvider
	calendar  CalendarAPI
	sanitizer *bluemonday.Policy
	logger    logger.Interface

	// now is injectable for tests.
	now func() time.Time
}

// NewFetchCalendarWindowUseCase creates a new calendar pull fetcher.
func NewFetchCalendarWindowUseCase(
	tokens TokenProvider,
	calendar CalendarAPI,
	log logger.Interface,
) *FetchCalendarWindowUseCase {
	return &FetchCalendarWindowUseCase{
		tokens:   tokens,
		calendar: calendar,
		// Remote titles are rendered in the workspace UI; strip any markup.
		sanitizer: bluemonday.StrictPolicy(),
		logger:    log,
		now:       time.Now,
	}
}

// Execute fetches the window at dayOffset relative to the current logical
// day. A failure on one calendar is logged and skipped; the call fails only
// when every calendar fails.
func (uc *FetchCalendarWindowUseCase) Execute(ctx context.Context, userID uint, calendarIDs []string, dayOffset int) (*dto.CalendarWindowResult, error) {
	if len(calendarIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one calendar id is required")
	}

	token, _, err := uc.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	window := biztime.SyncWindowFor(uc.now(), dayOffset)

	// The same event can appear under more than one subscribed calendar;
	// keep the first occurrence per external id.
	seen := make(map[string]bool)
	var events []dto.ClassifiedEvent
	var lastErr error
	failed := 0

	for _, calendarID := range calendarIDs {
		remote, err := uc.calendar.ListEvents(ctx, token, calendarID, window.Start, window.End)
		if err != nil {
			uc.logger.Warnw("calendar fetch failed, skipping",
				"user_id", userID, "calendar_id", calendarID, "error", err)
			lastErr = err
			failed++
			continue
		}

		for _, ev := range remote {
			if ev.ID == "" || seen[ev.ID] {
				continue
			}
			if ev.Status == "cancelled" {
				continue
			}
			// All-day events have no time-of-day component and are not part
			// of the schedule view.
			if ev.Start == nil || ev.Start.AllDay() || ev.Start.DateTime == "" {
				continue
			}

			endRaw := ""
			if ev.End != nil {
				endRaw = ev.End.DateTime
			}
			classified, ok := uc.classify(ev.ID, calendarID, ev.Summary, ev.Description, ev.ColorID, ev.Start.DateTime, endRaw)
			if !ok {
				continue
			}
			seen[ev.ID] = true
			events = append(events, classified)
		}
	}

	if failed == len(calendarIDs) {
		return nil, lastErr
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartAt.Before(events[j].StartAt)
	})

	return &dto.CalendarWindowResult{
		Window: dto.SyncWindowInfo{Start: window.Start, End: window.End},
		Events: events,
	}, nil
}

func (uc *FetchCalendarWindowUseCase) classify(eventID, calendarID, summary, description, colorID, startRaw, endRaw string) (dto.ClassifiedEvent, bool) {
	startAt, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		uc.logger.Warnw("unparseable event start, skipping", "event_id", eventID, "start", startRaw)
		return dto.ClassifiedEvent{}, false
	}
	var endAt time.Time
	if endRaw != "" {
		endAt, _ = time.Parse(time.RFC3339, endRaw)
	}

	internalID, authored := schedule.ExtractTaskID(description)
	category, matched := schedule.ResolveCategory(colorID, summary)

	return dto.ClassifiedEvent{
		ExternalID:         eventID,
		CalendarID:         calendarID,
		Title:              uc.sanitizer.Sanitize(schedule.StripGlyph(summary)),
		Category:           categoryString(category, matched),
		StartAt:            startAt.UTC(),
		EndAt:              endAt.UTC(),
		InternalTaskID:     internalID,
		InternallyAuthored: authored || matched,
	}, true
}

func categoryString(c schedule.Category, ok bool) string {
	if !ok {
		return ""
	}
	return string(c)
}
