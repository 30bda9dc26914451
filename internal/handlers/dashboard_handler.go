package handlers

import (
	"net/http"

	"linktree_backend/internal/middleware"
	"linktree_backend/internal/services"
	"linktree_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the owner-only pages and mutations
type DashboardHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewDashboardHandler(base *BaseHandler, profileService services.ProfileService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *DashboardHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/dashboard", middleware.RequireSessionRedirect("/create"), h.Dashboard)

	owner := r.Group("")
	owner.Use(middleware.RequireSession())
	{
		owner.POST("/update-profile", h.UpdateProfile)
		owner.POST("/add-link", h.AddLink)
		owner.POST("/delete-link", h.DeleteLink)
	}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.profileService.GetDashboard(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

func (h *DashboardHandler) AddLink(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddLinkRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	link, err := h.profileService.AddLink(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Link added successfully",
		"link":    link,
	})
}

func (h *DashboardHandler) DeleteLink(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteLinkRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.profileService.DeleteLink(h.GetDB(c), userID, req.ID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Link deleted successfully",
	})
}
