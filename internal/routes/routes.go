package routes

import (
	"linktree_backend/internal/handlers"
	"linktree_backend/internal/logger"
	"linktree_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every HTTP route. Public pages go last because
// /:identifier claims every single-segment path nobody else owns.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	appHandlers.AuthHandler.RegisterRoutes(ginRouter)
	appHandlers.DashboardHandler.RegisterRoutes(ginRouter)
	appHandlers.PageHandler.RegisterRoutes(ginRouter)

	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrNotFound(nil))
	})

	logger.Debug("HTTP routes registered", "count", len(ginRouter.Routes()))
}
