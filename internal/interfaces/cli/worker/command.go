// Package worker implements the background sync worker subcommand.
package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/services"
	"github.com/flowdesk-inc/flowdesk/internal/application/sync/usecases"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/cache"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/config"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/crypto"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/database"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/repository"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/scheduler"
	"github.com/flowdesk-inc/flowdesk/internal/shared/biztime"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the background sync worker",
		Long:  `Start the scheduled sync worker that pulls remote state for all connected users.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting sync worker", "environment", env)

	if err := biztime.Init(cfg.Sync.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}
	biztime.SetDayBoundaryHour(cfg.Sync.DayBoundaryHour)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	cipher, err := crypto.NewTokenCipher(cfg.Crypto.TokenKey, cfg.Crypto.LegacyTokenKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token cipher: %w", err)
	}

	credentialRepo := repository.NewCredentialRepository(database.Get())

	refreshLock := cache.NewRedisRefreshLock(redisClient,
		time.Duration(cfg.Sync.RefreshLockTTLSecs)*time.Second)
	oauthClient := google.NewOAuthClient(cfg.Google)
	remoteClient := google.NewClient(time.Duration(cfg.Sync.RemoteTimeoutSeconds) * time.Second)

	tokenManager := services.NewTokenManager(
		credentialRepo, cipher, refreshLock, oauthClient,
		services.TokenManagerConfig{
			ExpirySkew:  time.Duration(cfg.Sync.ExpirySkewSeconds) * time.Second,
			RefreshWait: time.Duration(cfg.Sync.RefreshWaitMillis) * time.Millisecond,
		},
		log,
	)

	calendarUC := usecases.NewFetchCalendarWindowUseCase(tokenManager, remoteClient, log)
	taskStatusUC := usecases.NewFetchTaskStatusUseCase(tokenManager, remoteClient, cfg.Sync.TaskListName, log)

	w := scheduler.NewWorker(cfg.Worker.Schedule, credentialRepo, calendarUC, taskStatusUC, log)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infow("received signal, shutting down", "signal", sig)
	w.Stop()
	return nil
}
