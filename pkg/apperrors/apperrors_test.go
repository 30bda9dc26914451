package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesCodeAndDomain(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrUserNotVerified)

	assert.True(t, errors.Is(wrapped, ErrInvalidCredentials))
	assert.True(t, errors.Is(ErrInvalidCredentials.WithError(errors.New("x")), ErrInvalidCredentials))
	assert.False(t, errors.Is(ErrInvalidToken, ErrInvalidCredentials))
	assert.False(t, errors.Is(errors.New("plain"), ErrInvalidCredentials))
}

func TestAppError_CopiesDoNotMutateSentinels(t *testing.T) {
	withDetails := ErrDuplicateEmail.WithDetails("x")

	assert.Nil(t, ErrDuplicateEmail.Details)
	assert.Equal(t, "x", withDetails.Details)
}

func TestAppError_JSONNeverCarriesWrappedError(t *testing.T) {
	err := StoreFailure(errors.New("dial tcp 10.0.0.1:3306: secret-host"))

	raw, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.NotContains(t, string(raw), "secret-host")
	assert.JSONEq(t, `{"code":"DATABASE_ERROR","domain":"store","message":"Internal server error"}`, string(raw))
	assert.Contains(t, err.Error(), "secret-host")
}

func TestHandleGinError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		debug      bool
		wantStatus int
		wantCode   string
		wantDetail bool
	}{
		{"client error", ErrDuplicateEmail, false, http.StatusBadRequest, "DUPLICATE_EMAIL", false},
		{"validation keeps details", ValidationError(map[string]string{"email": "bad"}), false, http.StatusBadRequest, "VALIDATION_FAILED", true},
		{"unknown error becomes 500", errors.New("boom"), false, http.StatusInternalServerError, "INTERNAL_ERROR", false},
		{"5xx details hidden", StoreFailure(errors.New("x")).WithDetails("sql"), false, http.StatusInternalServerError, "DATABASE_ERROR", false},
		{"5xx details in debug", StoreFailure(errors.New("x")).WithDetails("sql"), true, http.StatusInternalServerError, "DATABASE_ERROR", true},
		{"mail failure", ErrMailFailure(errors.New("smtp")), false, http.StatusServiceUnavailable, "EXTERNAL_SERVICE_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			(&GinErrorHandler{Debug: tt.debug}).HandleGinError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			var body struct {
				Error struct {
					Code    string      `json:"code"`
					Details interface{} `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantDetail, body.Error.Details != nil)
		})
	}
}
