package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

func TestFetchTaskStatus_CreatesDedicatedListOnce(t *testing.T) {
	tasks := &fakeTasksAPI{}
	uc := NewFetchTaskStatusUseCase(&fakeTokenProvider{token: "tok"}, tasks, "Flowdesk", logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "list-Flowdesk", result.ListID)
	assert.Equal(t, []string{"Flowdesk"}, tasks.insertedLists)

	// Second run finds the list instead of creating another.
	result, err = uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "list-Flowdesk", result.ListID)
	assert.Len(t, tasks.insertedLists, 1)
}

func TestFetchTaskStatus_ReusesExistingList(t *testing.T) {
	tasks := &fakeTasksAPI{
		lists: []*google.TaskList{
			{ID: "list-other", Title: "Groceries"},
			{ID: "list-fd", Title: "Flowdesk"},
		},
	}
	uc := NewFetchTaskStatusUseCase(&fakeTokenProvider{token: "tok"}, tasks, "Flowdesk", logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "list-fd", result.ListID)
	assert.Empty(t, tasks.insertedLists)
}

func TestFetchTaskStatus_PartitionsByMarker(t *testing.T) {
	tasks := &fakeTasksAPI{
		lists: []*google.TaskList{{ID: "list-fd", Title: "Flowdesk"}},
		items: map[string][]*google.TaskItem{
			"list-fd": {
				{ID: "r1", Title: "\U0001F4BC write report", Notes: "[fd:task:t1]", Status: "completed"},
				{ID: "r2", Title: "[P] buy milk", Status: "needsAction"},
				{ID: "r3", Title: "no glyph here", Status: "needsAction"},
				{ID: "", Title: "ghost item without id"},
			},
		},
	}
	uc := NewFetchTaskStatusUseCase(&fakeTokenProvider{token: "tok"}, tasks, "Flowdesk", logger.NewLogger())

	result, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, result.Linked, 1)
	linked := result.Linked[0]
	assert.Equal(t, "t1", linked.InternalID)
	assert.Equal(t, "r1", linked.ExternalID)
	assert.True(t, linked.Completed, "completion state flows back for linked items")

	require.Len(t, result.Unlinked, 2)
	assert.Equal(t, "buy milk", result.Unlinked[0].Title, "glyph stripped from adoption candidates")
	assert.Equal(t, string(schedule.CategoryPersonal), result.Unlinked[0].Category)
	assert.False(t, result.Unlinked[0].Completed)
	assert.Empty(t, result.Unlinked[1].Category, "no glyph means no inferred category")
}

func TestFetchTaskStatus_TokenFailurePropagates(t *testing.T) {
	provider := &fakeTokenProvider{err: assertionError{}}
	uc := NewFetchTaskStatusUseCase(provider, &fakeTasksAPI{}, "Flowdesk", logger.NewLogger())

	_, err := uc.Execute(context.Background(), 1)
	assert.Error(t, err)
}

type assertionError struct{}

func (assertionError) Error() string { return "boom" }
