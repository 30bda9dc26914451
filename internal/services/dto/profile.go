package dto

import "linktree_backend/internal/models"

// UpdateProfileRequest - POST /update-profile
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" form:"displayName" validate:"max=100"`
	Bio         string `json:"bio" form:"bio" validate:"max=65535"`
	ThemeColor  string `json:"themeColor" form:"themeColor" validate:"max=50"`
}

// AddLinkRequest - POST /add-link
type AddLinkRequest struct {
	Platform string `json:"platform" form:"platform" validate:"required,max=50"`
	URL      string `json:"url" form:"url" validate:"required,max=255"`
}

// DeleteLinkRequest - POST /delete-link
// A zero or foreign id deletes nothing and still succeeds.
type DeleteLinkRequest struct {
	ID uint `json:"id" form:"id"`
}

// DashboardResponse - what the signed-in owner sees
type DashboardResponse struct {
	Email   string          `json:"email"`
	Profile *models.Profile `json:"profile"`
	Links   []models.Link   `json:"links"`
}

// PublicPageResponse - the published page; never carries the owner's email
type PublicPageResponse struct {
	Profile *models.Profile `json:"profile"`
	Links   []models.Link   `json:"links"`
}
