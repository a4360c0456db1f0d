// Package routes wires handlers into the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/flowdesk-inc/flowdesk/internal/interfaces/http/handlers"
	"github.com/flowdesk-inc/flowdesk/internal/interfaces/http/middleware"
)

// SyncRouteConfig holds dependencies for the sync routes.
type SyncRouteConfig struct {
	SyncHandler    *handlers.SyncHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupSyncRoutes configures the external sync routes. The OAuth callback is
// registered outside the authenticated group because the provider redirect
// carries no session token.
func SetupSyncRoutes(engine *gin.Engine, cfg *SyncRouteConfig) {
	engine.GET("/api/sync/callback", cfg.SyncHandler.Callback)

	sync := engine.Group("/api/sync")
	sync.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sync.GET("/connect", cfg.SyncHandler.Connect)
		sync.POST("/disconnect", cfg.SyncHandler.Disconnect)

		sync.POST("/tasks/push", cfg.SyncHandler.PushTasks)
		sync.POST("/tasks/links", cfg.SyncHandler.ApplyLinks)
		sync.GET("/tasks/status", cfg.SyncHandler.GetTaskStatus)

		sync.GET("/calendar", cfg.SyncHandler.GetCalendarWindow)
	}
}
