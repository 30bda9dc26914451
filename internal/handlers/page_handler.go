package handlers

import (
	"net/http"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/middleware"
	"linktree_backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PageHandler serves the landing page, health check and published pages
type PageHandler struct {
	*BaseHandler
	pageService    services.PageService
	profileService services.ProfileService
	pool           *gorm.DB
}

func NewPageHandler(base *BaseHandler, pageService services.PageService, profileService services.ProfileService, pool *gorm.DB) *PageHandler {
	return &PageHandler{
		BaseHandler:    base,
		pageService:    pageService,
		profileService: profileService,
		pool:           pool,
	}
}

// RegisterRoutes must run after every other handler: /:identifier takes
// whatever single-segment path is left.
func (h *PageHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Landing)
	r.GET("/healthz", h.Health)
	r.GET("/:identifier", h.PublicPage)
}

func (h *PageHandler) Landing(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	dashboard, err := h.profileService.GetDashboard(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"email":         dashboard.Email,
	})
}

func (h *PageHandler) PublicPage(c *gin.Context) {
	page, err := h.pageService.Resolve(h.GetDB(c), c.Param("identifier"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Health - GET /healthz, 503 while the database is unreachable
func (h *PageHandler) Health(c *gin.Context) {
	sqlDB, err := h.pool.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
