package handlers

import (
	"errors"
	"fmt"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/middleware"
	"linktree_backend/internal/validator"
	"linktree_backend/pkg/apperrors"
	"linktree_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB returns the request-scoped *gorm.DB set by DBMiddleware.
// A missing handle means the router is miswired, so it panics.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, ok := middleware.GetDB(c)
	if !ok {
		val, _ := c.Get(string(contextkeys.DBContextKey))
		logger.CtxError(c.Request.Context(), "critical error: no db handle in context",
			"key", contextkeys.DBContextKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: DBMiddleware did not set the db key")
	}
	return db
}

// BindAndValidate binds a JSON or form body into obj and validates it.
// On failure the error response is already written.
func (h *BaseHandler) BindAndValidate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind request body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"code", appErr.Code,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
		return
	}

	logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// GetAndAuthorizeUserID returns the caller's user id or writes a 401
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: no user in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}
