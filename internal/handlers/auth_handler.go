package handlers

import (
	"net/http"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/middleware"
	"linktree_backend/internal/services"
	"linktree_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService    services.AuthService
	sessionService services.SessionService
	cookieName     string
	baseURL        string
}

func NewAuthHandler(
	base *BaseHandler,
	authService services.AuthService,
	sessionService services.SessionService,
	cookieName string,
	baseURL string,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    base,
		authService:    authService,
		sessionService: sessionService,
		cookieName:     cookieName,
		baseURL:        baseURL,
	}
}

func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/create", h.CreatePage)
	r.POST("/register", h.Register)
	r.GET("/verify", h.Verify)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
}

// CreatePage - GET /create, the sign-up / sign-in entry point
func (h *AuthHandler) CreatePage(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": "create",
		"forms": gin.H{
			"register": gin.H{"method": http.MethodPost, "action": "/register", "fields": []string{"email", "password"}},
			"login":    gin.H{"method": http.MethodPost, "action": "/login", "fields": []string{"email", "password"}},
		},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.authService.Register(h.GetDB(c), &req, h.requestBaseURL(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Registration successful. Please check your email for verification.",
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/create")
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.Verify(db, code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success:  true,
		Message:  "Email verified successfully!",
		Redirect: "/dashboard",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success:  true,
		Message:  "Login successful",
		Redirect: "/dashboard",
	})
}

// Logout - GET /logout, always ends on the landing page
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		if err := h.sessionService.Destroy(h.GetDB(c), cookie); err != nil {
			logger.CtxWithError(c.Request.Context(), "Failed to delete session on logout", err)
		}
	}

	middleware.ClearSessionCookie(c, h.cookieName)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint) bool {
	// a caller who was already signed in gives up the old session
	if previous, ok := middleware.GetSessionID(c); ok {
		if err := h.sessionService.Revoke(h.GetDB(c), previous); err != nil {
			h.HandleServiceError(c, err)
			return false
		}
	}

	token, _, err := h.sessionService.Create(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return false
	}

	middleware.SetSessionCookie(c, h.cookieName, token, h.sessionService.TTL())
	logger.CtxInfo(logger.WithUserID(c.Request.Context(), userID), "Session started")
	return true
}

// requestBaseURL prefers the configured base URL and falls back to the
// scheme and host the client used.
func (h *AuthHandler) requestBaseURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if middleware.IsHTTPS(c) {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
