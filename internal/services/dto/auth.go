package dto

// RegisterRequest - POST /register
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// LoginRequest - POST /login
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required"`
}

// MessageResponse - generic outcome body
type MessageResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}
