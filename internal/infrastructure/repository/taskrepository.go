package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/mappers"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/models"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
)

// TaskRepository implements schedule.TaskRepository using GORM with
// Model/Mapper separation.
type TaskRepository struct {
	db     *gorm.DB
	mapper mappers.TaskMapper
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) schedule.TaskRepository {
	return &TaskRepository{
		db:     db,
		mapper: mappers.NewTaskMapper(),
	}
}

func (r *TaskRepository) GetByIDs(ctx context.Context, ids []string) ([]*schedule.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var taskModels []*models.TaskModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&taskModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by ids: %w", err)
	}
	return r.mapper.ToDomainList(taskModels), nil
}

func (r *TaskRepository) GetByUserID(ctx context.Context, userID uint) ([]*schedule.Task, error) {
	var taskModels []*models.TaskModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&taskModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by user: %w", err)
	}
	return r.mapper.ToDomainList(taskModels), nil
}

// SaveVersioned persists the task guarded by its version column. The update
// only lands when the stored version still matches the one the caller read,
// so two competing writers cannot silently overwrite each other.
func (r *TaskRepository) SaveVersioned(ctx context.Context, task *schedule.Task) error {
	model := r.mapper.ToModel(task)
	currentVersion := model.Version
	model.Version = currentVersion + 1

	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ? AND version = ?", model.ID, currentVersion).
		Updates(map[string]interface{}{
			"title":             model.Title,
			"notes":             model.Notes,
			"category":          model.Category,
			"start_at":          model.StartAt,
			"end_at":            model.EndAt,
			"completed":         model.Completed,
			"external_event_id": model.ExternalEventID,
			"version":           model.Version,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("task was modified concurrently",
			fmt.Sprintf("task %s version %d is stale", task.ID, currentVersion))
	}

	task.Version = model.Version
	return nil
}
