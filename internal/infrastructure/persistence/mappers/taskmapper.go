package mappers

import (
	"time"

	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/models"
)

// TaskMapper handles the conversion between the task domain entity and its
// persistence model.
type TaskMapper interface {
	ToModel(entity *schedule.Task) *models.TaskModel
	ToDomain(model *models.TaskModel) *schedule.Task
	ToDomainList(models []*models.TaskModel) []*schedule.Task
}

type taskMapper struct{}

// NewTaskMapper creates a new TaskMapper.
func NewTaskMapper() TaskMapper {
	return &taskMapper{}
}

func (m *taskMapper) ToModel(entity *schedule.Task) *models.TaskModel {
	if entity == nil {
		return nil
	}

	var category *string
	if entity.Category != "" {
		s := string(entity.Category)
		category = &s
	}

	return &models.TaskModel{
		ID:              entity.ID,
		UserID:          entity.UserID,
		Title:           entity.Title,
		Notes:           entity.Notes,
		Category:        category,
		StartAt:         timePtr(entity.StartAt),
		EndAt:           timePtr(entity.EndAt),
		Completed:       entity.Completed,
		ExternalEventID: entity.ExternalEventID,
		Version:         entity.Version,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}
}

func (m *taskMapper) ToDomain(model *models.TaskModel) *schedule.Task {
	if model == nil {
		return nil
	}

	var category schedule.Category
	if model.Category != nil {
		category = schedule.Category(*model.Category)
	}

	return &schedule.Task{
		ID:              model.ID,
		UserID:          model.UserID,
		Title:           model.Title,
		Notes:           model.Notes,
		Category:        category,
		StartAt:         timeVal(model.StartAt),
		EndAt:           timeVal(model.EndAt),
		Completed:       model.Completed,
		ExternalEventID: model.ExternalEventID,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func (m *taskMapper) ToDomainList(taskModels []*models.TaskModel) []*schedule.Task {
	result := make([]*schedule.Task, 0, len(taskModels))
	for _, model := range taskModels {
		result = append(result, m.ToDomain(model))
	}
	return result
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
