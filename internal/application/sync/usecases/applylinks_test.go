package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

func TestApplyLinks_PersistsTaskAndLink(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: map[string]*schedule.Task{
		"t1": {ID: "t1", UserID: 1, Category: schedule.CategoryWork, Version: 3},
	}}
	links := &fakeLinkRepo{}
	uc := NewApplyLinksUseCase(tasks, links, logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1, "cal-1", []dto.PushItemResult{
		{InternalID: "t1", ExternalID: "ev-1", Action: dto.ActionCreate},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Empty(t, result.Conflicts)

	require.Len(t, tasks.saved, 1)
	assert.Equal(t, "ev-1", tasks.saved[0].ExternalEventID)

	require.Len(t, links.upserted, 1)
	link := links.upserted[0]
	assert.Equal(t, "t1", link.InternalTaskID)
	assert.Equal(t, "ev-1", link.ExternalObjectID)
	assert.Equal(t, "cal-1", link.ExternalContainerID)
	assert.Equal(t, schedule.CategoryWork, link.Category)
}

func TestApplyLinks_VersionConflictSkipped(t *testing.T) {
	tasks := &fakeTaskRepo{
		tasks: map[string]*schedule.Task{
			"t1": {ID: "t1", UserID: 1, Version: 3},
			"t2": {ID: "t2", UserID: 1, Version: 1},
		},
		saveErr: map[string]error{
			"t1": apperrors.NewConflictError("task was modified concurrently"),
		},
	}
	links := &fakeLinkRepo{}
	uc := NewApplyLinksUseCase(tasks, links, logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1, "cal-1", []dto.PushItemResult{
		{InternalID: "t1", ExternalID: "ev-1"},
		{InternalID: "t2", ExternalID: "ev-2"},
	})
	require.NoError(t, err, "a version conflict on one task must not abort the apply")
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, []string{"t1"}, result.Conflicts)
	assert.Len(t, links.upserted, 1, "no link is written for the conflicted task")
}

func TestApplyLinks_UnknownOrForeignTask(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: map[string]*schedule.Task{
		"theirs": {ID: "theirs", UserID: 2, Version: 1},
	}}
	uc := NewApplyLinksUseCase(tasks, &fakeLinkRepo{}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1, "cal-1", []dto.PushItemResult{
		{InternalID: "missing", ExternalID: "ev-1"},
		{InternalID: "theirs", ExternalID: "ev-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.ElementsMatch(t, []string{"missing", "theirs"}, result.Conflicts)
}

func TestApplyLinks_EmptyInput(t *testing.T) {
	uc := NewApplyLinksUseCase(&fakeTaskRepo{}, &fakeLinkRepo{}, logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1, "cal-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
}
