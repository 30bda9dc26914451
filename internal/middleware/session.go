package middleware

import (
	"net/http"
	"strings"
	"time"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/services"
	"linktree_backend/pkg/apperrors"
	"linktree_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionMiddleware resolves the session cookie, when present, into the
// caller's identity. Anonymous requests pass through untouched.
func SessionMiddleware(sessions services.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		db, ok := GetDB(c)
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(nil))
			return
		}

		session, err := sessions.Authenticate(db, cookie)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				logger.CtxDebug(c.Request.Context(), "Dropping stale session cookie", "path", c.Request.URL.Path)
				ClearSessionCookie(c, cookieName)
				c.Next()
				return
			}
			apperrors.HandleError(c, err)
			return
		}

		c.Set(string(contextkeys.UserIDKey), session.UserID)
		c.Set(string(contextkeys.SessionIDKey), session.ID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), session.UserID))
		c.Next()
	}
}

// RequireSession rejects anonymous callers with 401
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			logger.CtxWarn(c.Request.Context(), "Unauthorized access",
				"path", c.Request.URL.Path,
				"ip", c.ClientIP(),
			)
			apperrors.HandleError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireSessionRedirect sends anonymous callers to location instead
func RequireSessionRedirect(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, if any
func GetUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(string(contextkeys.UserIDKey))
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok && id != 0
}

// GetSessionID returns the id of the session that authenticated the request
func GetSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(string(contextkeys.SessionIDKey))
	return id, id != ""
}

// GetDB returns the handle set by DBMiddleware
func GetDB(c *gin.Context) (*gorm.DB, bool) {
	val, exists := c.Get(string(contextkeys.DBContextKey))
	if !exists {
		return nil, false
	}
	db, ok := val.(*gorm.DB)
	return db, ok && db != nil
}

// IsHTTPS reports whether the client reached us over TLS, directly or via a proxy
func IsHTTPS(c *gin.Context) bool {
	return c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))
}

func SetSessionCookie(c *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   IsHTTPS(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   IsHTTPS(c),
		SameSite: http.SameSiteLaxMode,
	})
}
