// Package http assembles the HTTP surface: dependency wiring, middleware,
// and route registration.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/services"
	"github.com/flowdesk-inc/flowdesk/internal/application/sync/usecases"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/auth"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/cache"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/config"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/crypto"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/repository"
	"github.com/flowdesk-inc/flowdesk/internal/interfaces/http/handlers"
	"github.com/flowdesk-inc/flowdesk/internal/interfaces/http/middleware"
	"github.com/flowdesk-inc/flowdesk/internal/interfaces/http/routes"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
	"github.com/flowdesk-inc/flowdesk/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	syncHandler    *handlers.SyncHandler
	authMiddleware *middleware.AuthMiddleware
	allowedOrigins []string
}

// NewRouter creates a new HTTP router with all dependencies wired.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	cipher, err := crypto.NewTokenCipher(cfg.Crypto.TokenKey, cfg.Crypto.LegacyTokenKey)
	if err != nil {
		return nil, err
	}

	credentialRepo := repository.NewCredentialRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	linkRepo := repository.NewExternalLinkRepository(db)

	refreshLock := cache.NewRedisRefreshLock(redisClient,
		time.Duration(cfg.Sync.RefreshLockTTLSecs)*time.Second)
	stateStore := cache.NewRedisStateStore(redisClient, 10*time.Minute)

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

	pushUC := usecases.NewPushTasksUseCase(linkRepo, tokenManager, remoteClient, log)
	calendarUC := usecases.NewFetchCalendarWindowUseCase(tokenManager, remoteClient, log)
	taskStatusUC := usecases.NewFetchTaskStatusUseCase(tokenManager, remoteClient, cfg.Sync.TaskListName, log)
	applyLinksUC := usecases.NewApplyLinksUseCase(taskRepo, linkRepo, log)
	connectUC := usecases.NewConnectUseCase(credentialRepo, cipher, oauthClient, stateStore, log)
	disconnectUC := usecases.NewDisconnectUseCase(credentialRepo, cipher, oauthClient, log)

	syncHandler := handlers.NewSyncHandler(
		pushUC, calendarUC, taskStatusUC, applyLinksUC, connectUC, disconnectUC, log,
	)

	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, log)

	return &Router{
		engine:         engine,
		syncHandler:    syncHandler,
		authMiddleware: authMiddleware,
		allowedOrigins: cfg.Server.AllowedOrigins,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(log logger.Interface) {
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.allowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "ok", nil)
	})

	routes.SetupSyncRoutes(r.engine, &routes.SyncRouteConfig{
		SyncHandler:    r.syncHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
