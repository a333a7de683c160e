package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/httputil"
	"github.com/policyhub/policy-server-go/internal/service"
)

type DriveHandler struct {
	driveService *service.DriveService
}

func NewDriveHandler(driveService *service.DriveService) *DriveHandler {
	return &DriveHandler{driveService: driveService}
}

func (h *DriveHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/download", h.Download)

	return r
}

// POST /google-drive/download
func (h *DriveHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID      string `json:"fileId"`
		AccessToken string `json:"accessToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	download, err := h.driveService.Download(r.Context(), req.FileID, req.AccessToken)
	if err != nil {
		var upstream *service.DriveUpstreamError
		if errors.As(err, &upstream) {
			// Mirror the upstream status with the normalized error body.
			httputil.WriteErrorWithStatus(w, upstream.Status,
				apperrors.New(apperrors.ErrCodeExternal, upstream.Message).WithDetails(upstream.Details))
			return
		}
		writeError(w, err)
		return
	}
	defer download.Body.Close()

	if download.ContentType != "" {
		w.Header().Set("Content-Type", download.ContentType)
	}
	if download.ContentDisposition != "" {
		w.Header().Set("Content-Disposition", download.ContentDisposition)
	}
	if download.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.ContentLength, 10))
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, download.Body); err != nil {
		// Headers are already sent; all we can do is log the broken stream.
		log.Warn().Err(err).Str("fileId", req.FileID).Msg("drive download stream interrupted")
	}
}
