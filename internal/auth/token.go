package auth

import "github.com/google/uuid"

// NewVerificationToken returns a random opaque single-use token
func NewVerificationToken() string {
	return uuid.NewString()
}

// NewSessionID returns a random session identifier
func NewSessionID() string {
	return uuid.NewString()
}
