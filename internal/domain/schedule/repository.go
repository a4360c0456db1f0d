package schedule

import "context"

// LinkRepository defines data access for external links. The sync engine only
// reads links; writes flow through the caller's versioned save path.
type LinkRepository interface {
	// GetByTaskIDs retrieves the active links for the given internal task ids
	// within one container.
	GetByTaskIDs(ctx context.Context, taskIDs []string, containerID string) ([]*ExternalLink, error)

	// GetByContainer retrieves all links inside one container.
	GetByContainer(ctx context.Context, containerID string) ([]*ExternalLink, error)

	// Upsert creates or updates the link for (task, container). Used by the
	// caller-side apply path, never by the push synchronizer itself.
	Upsert(ctx context.Context, link *ExternalLink) error

	// DeleteByTaskID removes all links for an internal task.
	DeleteByTaskID(ctx context.Context, taskID string) error
}

// TaskRepository defines the caller-side access to internal tasks. The sync
// engine reads tasks and bumps their version through SaveVersioned when
// applying sync results.
type TaskRepository interface {
	// GetByIDs retrieves tasks by internal ids.
	GetByIDs(ctx context.Context, ids []string) ([]*Task, error)

	// GetByUserID retrieves all tasks of one user.
	GetByUserID(ctx context.Context, userID uint) ([]*Task, error)

	// SaveVersioned persists the task guarded by its version column. Returns
	// a conflict error when the stored version no longer matches.
	SaveVersioned(ctx context.Context, task *Task) error
}
