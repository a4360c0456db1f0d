package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/mappers"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/models"
)

// ExternalLinkRepository implements schedule.LinkRepository using GORM with
// Model/Mapper separation.
type ExternalLinkRepository struct {
	db     *gorm.DB
	mapper mappers.ExternalLinkMapper
}

// NewExternalLinkRepository creates a new ExternalLinkRepository.
func NewExternalLinkRepository(db *gorm.DB) schedule.LinkRepository {
	return &ExternalLinkRepository{
		db:     db,
		mapper: mappers.NewExternalLinkMapper(),
	}
}

func (r *ExternalLinkRepository) GetByTaskIDs(ctx context.Context, taskIDs []string, containerID string) ([]*schedule.ExternalLink, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var linkModels []*models.ExternalLinkModel
	err := r.db.WithContext(ctx).
		Where("internal_task_id IN ? AND external_container_id = ?", taskIDs, containerID).
		Find(&linkModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get links by task ids: %w", err)
	}
	return r.mapper.ToDomainList(linkModels), nil
}

func (r *ExternalLinkRepository) GetByContainer(ctx context.Context, containerID string) ([]*schedule.ExternalLink, error) {
	var linkModels []*models.ExternalLinkModel
	err := r.db.WithContext(ctx).
		Where("external_container_id = ?", containerID).
		Find(&linkModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get links by container: %w", err)
	}
	return r.mapper.ToDomainList(linkModels), nil
}

func (r *ExternalLinkRepository) Upsert(ctx context.Context, link *schedule.ExternalLink) error {
	model := r.mapper.ToModel(link)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "internal_task_id"},
			{Name: "external_container_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_object_id",
			"category",
			"updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert link: %w", err)
	}
	link.ID = model.ID
	return nil
}

func (r *ExternalLinkRepository) DeleteByTaskID(ctx context.Context, taskID string) error {
	err := r.db.WithContext(ctx).
		Where("internal_task_id = ?", taskID).
		Delete(&models.ExternalLinkModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete links: %w", err)
	}
	return nil
}
