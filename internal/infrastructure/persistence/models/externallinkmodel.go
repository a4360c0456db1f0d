package models

import "time"

// ExternalLinkModel is the persistence model for task-to-remote-object links.
// The composite unique index enforces at most one active link per
// (task, container) pair.
type ExternalLinkModel struct {
	ID                  uint    `gorm:"primaryKey;autoIncrement"`
	InternalTaskID      string  `gorm:"size:64;not null;uniqueIndex:idx_links_task_container,priority:1"`
	ExternalObjectID    string  `gorm:"size:128;not null;index"`
	ExternalContainerID string  `gorm:"size:256;not null;uniqueIndex:idx_links_task_container,priority:2"`
	Category            *string `gorm:"size:16"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the table name
func (ExternalLinkModel) TableName() string {
	return "external_links"
}
