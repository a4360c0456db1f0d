package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	"github.com/flowdesk-inc/flowdesk/internal/shared/biztime"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// PushTasksUseCase sends a batch of internal tasks to one remote calendar.
// It decides create-vs-update per task from the durable links, executes each
// remote call with isolated failure handling, and returns the external ids
// for the caller to persist. It never writes links itself: persisting out of
// band here would race with concurrent client-driven saves of the same task.
type PushTasksUseCase struct {
	links    schedule.LinkRepository
	tokens   TokenProvider
	calendar CalendarAPI
	logger   logger.Interface
}

// NewPushTasksUseCase creates a new push synchronizer.
func NewPushTasksUseCase(
	links schedule.LinkRepository,
	tokens TokenProvider,
	calendar CalendarAPI,
	log logger.Interface,
) *PushTasksUseCase {
	return &PushTasksUseCase{
		links:    links,
		tokens:   tokens,
		calendar: calendar,
		logger:   log,
	}
}

// Execute pushes the batch to calendarID. A per-task failure is collected,
// never escalated; the call itself fails only when the credential is
// unusable or every task failed.
func (uc *PushTasksUseCase) Execute(ctx context.Context, userID uint, tasks []dto.PushTaskInput, calendarID string) (*dto.PushResult, error) {
	if len(tasks) == 0 {
		return &dto.PushResult{}, nil
	}

	token, _, err := uc.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Re-read the durable links and override whatever external id the caller
	// supplied. The caller's view may be stale relative to a sync that ran
	// from another client; trusting it would create duplicate remote events.
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	links, err := uc.links.GetByTaskIDs(ctx, ids, calendarID)
	if err != nil {
		return nil, err
	}
	linked := make(map[string]string, len(links))
	for _, l := range links {
		linked[l.InternalTaskID] = l.ExternalObjectID
	}
	for i := range tasks {
		if externalID, ok := linked[tasks[i].ID]; ok {
			tasks[i].ExternalEventID = externalID
		}
	}

	result := &dto.PushResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Tasks in one batch are independent; their remote calls run
	// concurrently with no ordering requirement.
	for _, task := range tasks {
		wg.Add(1)
		go func(task dto.PushTaskInput) {
			defer wg.Done()

			externalID, action, err := uc.pushOne(ctx, token, calendarID, task)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.logger.Warnw("task push failed",
					"user_id", userID, "task_id", task.ID, "error", err)
				result.Errors = append(result.Errors, pushError(task.ID, err))
				return
			}
			result.Results = append(result.Results, dto.PushItemResult{
				InternalID: task.ID,
				ExternalID: externalID,
				Action:     action,
			})
		}(task)
	}
	wg.Wait()

	if len(result.Results) == 0 && len(result.Errors) > 0 {
		return result, apperrors.NewRemoteTransientError("every task in the batch failed")
	}
	return result, nil
}

func (uc *PushTasksUseCase) pushOne(ctx context.Context, token, calendarID string, task dto.PushTaskInput) (string, string, error) {
	event := buildEvent(task)

	if task.ExternalEventID != "" {
		updated, err := uc.calendar.PatchEvent(ctx, token, calendarID, task.ExternalEventID, event)
		if err != nil {
			return "", "", err
		}
		return updated.ID, dto.ActionUpdate, nil
	}

	created, err := uc.calendar.InsertEvent(ctx, token, calendarID, event)
	if err != nil {
		return "", "", err
	}
	return created.ID, dto.ActionCreate, nil
}

// buildEvent renders an internal task as a remote event: glyph-prefixed
// title, category color, and the identity marker embedded in the
// description.
func buildEvent(task dto.PushTaskInput) *google.Event {
	category := schedule.Category(task.Category)

	title := task.Title
	if glyph := schedule.GlyphForCategory(category); glyph != "" {
		title = glyph + title
	}

	description := strings.TrimSpace(task.Notes)
	if _, ok := schedule.ExtractTaskID(description); !ok {
		marker := schedule.EmbedTaskID(task.ID)
		if description != "" {
			description += "\n\n"
		}
		description += marker
	}

	endAt := task.EndAt
	if endAt.IsZero() {
		endAt = task.StartAt.Add(time.Hour)
	}

	tz := biztime.Location().String()
	return &google.Event{
		Summary:     title,
		Description: description,
		ColorID:     schedule.ColorForCategory(category),
		Start:       &google.EventDateTime{DateTime: task.StartAt.Format(time.RFC3339), TimeZone: tz},
		End:         &google.EventDateTime{DateTime: endAt.Format(time.RFC3339), TimeZone: tz},
	}
}

func pushError(taskID string, err error) dto.PushItemError {
	item := dto.PushItemError{
		InternalID: taskID,
		Type:       string(apperrors.ErrorTypeRemoteTransient),
		Reason:     err.Error(),
	}
	if syncErr := apperrors.GetSyncError(err); syncErr != nil {
		item.Type = string(syncErr.Type)
	}
	return item
}
