package apperrors

import "net/http"

// ErrNotFound - factory for a 404 wrapping a repository error
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrMailFailure - the verification email could not be handed to the mail server
func ErrMailFailure(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "email", "Could not send verification email, please try again later", http.StatusServiceUnavailable)
}

// --- Auth ---

var ErrDuplicateEmail = New(
	CodeDuplicateEmail,
	"auth",
	"Email already in use",
	http.StatusBadRequest,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusBadRequest,
)

// ErrUserNotVerified is an InvalidCredentials variant with its own message.
// Is() matches on code and domain, so errors.Is(err, ErrInvalidCredentials) holds.
var ErrUserNotVerified = New(
	CodeInvalidCredentials,
	"auth",
	"Please verify your email first",
	http.StatusBadRequest,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid verification code",
	http.StatusBadRequest,
)

var ErrUnauthorized = New(
	CodeUnauthorized,
	"auth",
	"Unauthorized",
	http.StatusUnauthorized,
)

// --- Public page ---

var ErrPageNotFound = New(
	CodeNotFound,
	"page",
	"Page not found",
	http.StatusNotFound,
)
