package models

import "time"

// TaskModel is the persistence model for internal tasks. Version backs the
// optimistic-locking save path that applies sync results.
type TaskModel struct {
	ID              string  `gorm:"primaryKey;size:64"`
	UserID          uint    `gorm:"not null;index"`
	Title           string  `gorm:"size:512;not null"`
	Notes           string  `gorm:"type:text"`
	Category        *string `gorm:"size:16"`
	StartAt         *time.Time
	EndAt           *time.Time
	Completed       bool   `gorm:"not null;default:false"`
	ExternalEventID string `gorm:"size:128"`
	Version         int    `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name
func (TaskModel) TableName() string {
	return "tasks"
}
