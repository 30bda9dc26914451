package apperrors

import (
	"linktree_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - standard error body
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler converts errors into JSON responses
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - main error conversion for gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxError(c.Request.Context(), "server error",
			"code", appErr.Code,
			"error", appErr.Unwrap(),
			"path", c.Request.URL.Path,
		)
		if !h.Debug {
			// details of a 5xx are for the log only
			appErr = appErr.WithDetails(nil)
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// HandleError - shortcut used by handlers and middleware
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.IsDebugging()}
	handler.HandleGinError(c, err)
}

// AsAppError - tries to convert err into *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
