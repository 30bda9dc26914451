package services

import (
	"linktree_backend/internal/email"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService    AuthService
	SessionService SessionService
	ProfileService ProfileService
	PageService    PageService
	EmailService   email.Provider
}
