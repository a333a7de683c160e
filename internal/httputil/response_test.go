package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/policyhub/policy-server-go/internal/errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, map[string]string{"slug": "acme"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"slug":"acme"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   apperrors.ErrorCode
	}{
		{
			name:   "invalid token maps to 400",
			err:    apperrors.InvalidToken("Invalid or expired token"),
			status: http.StatusBadRequest,
			code:   apperrors.ErrCodeInvalidToken,
		},
		{
			name:   "expired token maps to 400",
			err:    apperrors.TokenExpired(),
			status: http.StatusBadRequest,
			code:   apperrors.ErrCodeTokenExpired,
		},
		{
			name:   "already exists maps to 400",
			err:    apperrors.AlreadyExists("An organization with this slug"),
			status: http.StatusBadRequest,
			code:   apperrors.ErrCodeAlreadyExists,
		},
		{
			name:   "unauthorized maps to 401",
			err:    apperrors.Unauthorized("Invalid email or password"),
			status: http.StatusUnauthorized,
			code:   apperrors.ErrCodeUnauthorized,
		},
		{
			name:   "forbidden maps to 403",
			err:    apperrors.Forbidden("Admin role required"),
			status: http.StatusForbidden,
			code:   apperrors.ErrCodeForbidden,
		},
		{
			name:   "not found maps to 404",
			err:    apperrors.NotFound("Portal"),
			status: http.StatusNotFound,
			code:   apperrors.ErrCodeNotFound,
		},
		{
			name:   "rate limit maps to 429",
			err:    apperrors.RateLimitExceeded(),
			status: http.StatusTooManyRequests,
			code:   apperrors.ErrCodeRateLimitExceeded,
		},
		{
			name:   "database error maps to 500",
			err:    apperrors.Database(errors.New("boom")),
			status: http.StatusInternalServerError,
			code:   apperrors.ErrCodeDatabase,
		},
		{
			name:   "external error maps to 502",
			err:    apperrors.External("drive", errors.New("boom")),
			status: http.StatusBadGateway,
			code:   apperrors.ErrCodeExternal,
		},
		{
			name:   "plain errors are wrapped as internal",
			err:    errors.New("unexpected"),
			status: http.StatusInternalServerError,
			code:   apperrors.ErrCodeInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}

	t.Run("plain error message is not leaked", func(t *testing.T) {
		rec := httptest.NewRecorder()

		WriteError(rec, errors.New("pq: relation does not exist"))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Error, "pq:")
	})
}

func TestWriteErrorWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	err := apperrors.New(apperrors.ErrCodeExternal, "Failed to download file from drive").
		WithDetails("File not found: abc")
	WriteErrorWithStatus(rec, http.StatusNotFound, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.ErrCodeExternal, resp.Code)
	assert.Equal(t, "File not found: abc", resp.Details)
}
