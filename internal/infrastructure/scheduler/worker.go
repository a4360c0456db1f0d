// Package scheduler runs the background sync cadence.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/usecases"
	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/shared/goroutine"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// Worker periodically pulls remote state for every connected user so the
// workspace view stays warm between interactive syncs. A failure for one
// user never aborts the run.
type Worker struct {
	cron        *cron.Cron
	schedule    string
	credentials integration.Repository
	calendar    *usecases.FetchCalendarWindowUseCase
	taskStatus  *usecases.FetchTaskStatusUseCase
	logger      logger.Interface
}

// NewWorker creates a sync worker with a cron schedule expression, e.g.
// "@every 15m".
func NewWorker(
	schedule string,
	credentials integration.Repository,
	calendar *usecases.FetchCalendarWindowUseCase,
	taskStatus *usecases.FetchTaskStatusUseCase,
	log logger.Interface,
) *Worker {
	return &Worker{
		cron:        cron.New(),
		schedule:    schedule,
		credentials: credentials,
		calendar:    calendar,
		taskStatus:  taskStatus,
		logger:      log.With("component", "scheduler"),
	}
}

// Start registers the sync job and starts the cron loop.
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		goroutine.SafeGo(w.logger, "scheduled-sync", w.runOnce)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Infow("sync worker started", "schedule", w.schedule)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Infow("sync worker stopped")
}

func (w *Worker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	userIDs, err := w.credentials.ListEnabledUserIDs(ctx)
	if err != nil {
		w.logger.Errorw("failed to list connected users", "error", err)
		return
	}

	w.logger.Infow("scheduled sync started", "users", len(userIDs))

	synced, failed := 0, 0
	for _, userID := range userIDs {
		if err := w.syncUser(ctx, userID); err != nil {
			w.logger.Warnw("scheduled sync failed for user",
				"user_id", userID, "error", err)
			failed++
			continue
		}
		synced++
	}

	w.logger.Infow("scheduled sync finished", "synced", synced, "failed", failed)
}

func (w *Worker) syncUser(ctx context.Context, userID uint) error {
	// The background cadence only refreshes the primary calendar; other
	// subscribed calendars are pulled on demand by the client.
	if _, err := w.calendar.Execute(ctx, userID, []string{"primary"}, 0); err != nil {
		return err
	}
	if _, err := w.taskStatus.Execute(ctx, userID); err != nil {
		return err
	}
	return nil
}
