package usecases

import (
	"context"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// ApplyLinksUseCase is the caller-side persistence path for a push result:
// each returned external id is written to the task through its versioned
// save and recorded as a durable link. A version conflict on one task is
// reported and skipped, never escalated; last applied state wins.
type ApplyLinksUseCase struct {
	tasks  schedule.TaskRepository
	links  schedule.LinkRepository
	logger logger.Interface
}

// NewApplyLinksUseCase creates a new apply-links use case.
func NewApplyLinksUseCase(
	tasks schedule.TaskRepository,
	links schedule.LinkRepository,
	log logger.Interface,
) *ApplyLinksUseCase {
	return &ApplyLinksUseCase{
		tasks:  tasks,
		links:  links,
		logger: log,
	}
}

// Execute persists the external ids from a push result. Items whose task no
// longer exists or whose version moved underneath us land in Conflicts.
func (uc *ApplyLinksUseCase) Execute(ctx context.Context, userID uint, calendarID string, items []dto.PushItemResult) (*dto.ApplyLinksResult, error) {
	if len(items) == 0 {
		return &dto.ApplyLinksResult{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.InternalID)
	}
	tasks, err := uc.tasks.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*schedule.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	result := &dto.ApplyLinksResult{}
	for _, item := range items {
		task, ok := byID[item.InternalID]
		if !ok || task.UserID != userID {
			result.Conflicts = append(result.Conflicts, item.InternalID)
			continue
		}

		task.ExternalEventID = item.ExternalID
		if err := uc.tasks.SaveVersioned(ctx, task); err != nil {
			if apperrors.IsConflictError(err) {
				uc.logger.Infow("task moved during push, skipping link apply",
					"task_id", task.ID)
				result.Conflicts = append(result.Conflicts, item.InternalID)
				continue
			}
			return result, err
		}

		link := &schedule.ExternalLink{
			InternalTaskID:      item.InternalID,
			ExternalObjectID:    item.ExternalID,
			ExternalContainerID: calendarID,
			Category:            task.Category,
		}
		if err := uc.links.Upsert(ctx, link); err != nil {
			return result, err
		}
		result.Applied++
	}

	return result, nil
}
