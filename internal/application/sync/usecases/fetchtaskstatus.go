package usecases

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// FetchTaskStatusUseCase pulls the dedicated remote task list and splits its
// items into internally authored (completion flows back) and externally
// authored (candidates for adoption).
type FetchTaskStatusUseCase struct {
	tokens    TokenProvider
	tasks     TasksAPI
	listName  string
	sanitizer *bluemonday.Policy
	logger    logger.Interface
}

// NewFetchTaskStatusUseCase creates a new task pull fetcher. listName is the
// well-known name of the dedicated remote list.
func NewFetchTaskStatusUseCase(
	tokens TokenProvider,
	tasks TasksAPI,
	listName string,
	log logger.Interface,
) *FetchTaskStatusUseCase {
	return &FetchTaskStatusUseCase{
		tokens:    tokens,
		tasks:     tasks,
		listName:  listName,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    log,
	}
}

// Execute retrieves all items of the dedicated list, creating the list on
// first use. Find-or-create checks the existing lists first so repeated
// calls never create duplicates.
func (uc *FetchTaskStatusUseCase) Execute(ctx context.Context, userID uint) (*dto.TaskSyncStatusResult, error) {
	token, _, err := uc.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	listID, err := uc.findOrCreateList(ctx, token)
	if err != nil {
		return nil, err
	}

	items, err := uc.tasks.ListTasks(ctx, token, listID)
	if err != nil {
		return nil, err
	}

	result := &dto.TaskSyncStatusResult{ListID: listID}
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if internalID, ok := schedule.ExtractTaskID(item.Notes); ok {
			result.Linked = append(result.Linked, dto.LinkedTaskStatus{
				InternalID: internalID,
				ExternalID: item.ID,
				Completed:  item.Completed(),
			})
			continue
		}

		category, matched := schedule.CategoryFromTitle(item.Title)
		result.Unlinked = append(result.Unlinked, dto.UnlinkedTask{
			ExternalID: item.ID,
			Title:      uc.sanitizer.Sanitize(schedule.StripGlyph(item.Title)),
			Category:   categoryString(category, matched),
			Completed:  item.Completed(),
		})
	}

	return result, nil
}

func (uc *FetchTaskStatusUseCase) findOrCreateList(ctx context.Context, token string) (string, error) {
	lists, err := uc.tasks.ListTaskLists(ctx, token)
	if err != nil {
		return "", err
	}
	for _, list := range lists {
		if list.Title == uc.listName {
			return list.ID, nil
		}
	}

	uc.logger.Infow("dedicated task list missing, creating", "list_name", uc.listName)
	created, err := uc.tasks.InsertTaskList(ctx, token, uc.listName)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
