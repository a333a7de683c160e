package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policyhub/policy-server-go/internal/service"
)

func driveRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDriveHandlerDownload(t *testing.T) {
	t.Run("streams the file with upstream headers", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="policy.pdf"`)
			w.Write([]byte("file bytes"))
		}))
		defer upstream.Close()

		h := NewDriveHandler(service.NewDriveService(upstream.URL))
		rec := httptest.NewRecorder()

		h.Routes().ServeHTTP(rec, driveRequest(t, `{"fileId":"abc","accessToken":"tok"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="policy.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "file bytes", rec.Body.String())
	})

	t.Run("mirrors the upstream error status", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"File not found: abc"}}`))
		}))
		defer upstream.Close()

		h := NewDriveHandler(service.NewDriveService(upstream.URL))
		rec := httptest.NewRecorder()

		h.Routes().ServeHTTP(rec, driveRequest(t, `{"fileId":"abc","accessToken":"tok"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Failed to download file from drive", resp.Error)
		assert.Equal(t, "File not found: abc", resp.Details)
	})

	t.Run("rejects a missing file id", func(t *testing.T) {
		h := NewDriveHandler(service.NewDriveService("http://127.0.0.1:1"))
		rec := httptest.NewRecorder()

		h.Routes().ServeHTTP(rec, driveRequest(t, `{"accessToken":"tok"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		h := NewDriveHandler(service.NewDriveService("http://127.0.0.1:1"))
		rec := httptest.NewRecorder()

		h.Routes().ServeHTTP(rec, driveRequest(t, `{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
