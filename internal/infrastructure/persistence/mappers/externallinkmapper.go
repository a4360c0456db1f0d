package mappers

import (
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/models"
)

// ExternalLinkMapper handles the conversion between the link domain entity
// and its persistence model.
type ExternalLinkMapper interface {
	ToModel(entity *schedule.ExternalLink) *models.ExternalLinkModel
	ToDomain(model *models.ExternalLinkModel) *schedule.ExternalLink
	ToDomainList(models []*models.ExternalLinkModel) []*schedule.ExternalLink
}

type externalLinkMapper struct{}

// NewExternalLinkMapper creates a new ExternalLinkMapper.
func NewExternalLinkMapper() ExternalLinkMapper {
	return &externalLinkMapper{}
}

func (m *externalLinkMapper) ToModel(entity *schedule.ExternalLink) *models.ExternalLinkModel {
	if entity == nil {
		return nil
	}

	var category *string
	if entity.Category != "" {
		s := string(entity.Category)
		category = &s
	}

	return &models.ExternalLinkModel{
		ID:                  entity.ID,
		InternalTaskID:      entity.InternalTaskID,
		ExternalObjectID:    entity.ExternalObjectID,
		ExternalContainerID: entity.ExternalContainerID,
		Category:            category,
		CreatedAt:           entity.CreatedAt,
		UpdatedAt:           entity.UpdatedAt,
	}
}

func (m *externalLinkMapper) ToDomain(model *models.ExternalLinkModel) *schedule.ExternalLink {
	if model == nil {
		return nil
	}

	var category schedule.Category
	if model.Category != nil {
		category = schedule.Category(*model.Category)
	}

	return &schedule.ExternalLink{
		ID:                  model.ID,
		InternalTaskID:      model.InternalTaskID,
		ExternalObjectID:    model.ExternalObjectID,
		ExternalContainerID: model.ExternalContainerID,
		Category:            category,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func (m *externalLinkMapper) ToDomainList(linkModels []*models.ExternalLinkModel) []*schedule.ExternalLink {
	result := make([]*schedule.ExternalLink, 0, len(linkModels))
	for _, model := range linkModels {
		result = append(result, m.ToDomain(model))
	}
	return result
}
