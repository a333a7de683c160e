package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/config"
	apperrors "github.com/policyhub/policy-server-go/internal/errors"
)

// maxUpstreamErrorBody bounds how much of an upstream error response is read.
const maxUpstreamErrorBody = 64 * 1024

type DriveDownload struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// DriveUpstreamError carries a normalized non-success response from the
// drive API; the handler mirrors its status code to the caller.
type DriveUpstreamError struct {
	Status  int
	Message string
	Details string
}

func (e *DriveUpstreamError) Error() string {
	return fmt.Sprintf("drive API returned %d: %s", e.Status, e.Message)
}

type DriveService struct {
	baseURL string
	client  *http.Client
}

func NewDriveService(baseURL string) *DriveService {
	return &DriveService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.DriveRequestTimeout,
		},
	}
}

// Download fetches the file's bytes from the drive API with the caller's
// access token. One attempt, no retries; the upstream authorization header
// never reaches the response. The returned body must be closed by the caller.
func (s *DriveService) Download(ctx context.Context, fileID, accessToken string) (*DriveDownload, error) {
	if fileID == "" {
		return nil, apperrors.MissingRequired("fileId")
	}
	if strings.ContainsAny(fileID, "/?#") {
		return nil, apperrors.InvalidInput("fileId", "contains illegal characters")
	}
	if accessToken == "" {
		return nil, apperrors.MissingRequired("accessToken")
	}

	fileURL := fmt.Sprintf("%s/drive/v3/files/%s?alt=media", s.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to build drive request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("fileId", fileID).Msg("drive download request failed")
		return nil, apperrors.Internal("Failed to download file").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		upstreamErr := normalizeUpstreamError(resp)
		log.Warn().
			Int("status", upstreamErr.Status).
			Str("fileId", fileID).
			Str("message", upstreamErr.Message).
			Msg("drive download rejected upstream")
		return nil, upstreamErr
	}

	return &DriveDownload{
		Body:               resp.Body,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentLength:      resp.ContentLength,
	}, nil
}

// normalizeUpstreamError turns an upstream failure body into {message,
// details}: JSON error bodies are parsed, anything else is kept as text.
func normalizeUpstreamError(resp *http.Response) *DriveUpstreamError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamErrorBody))

	result := &DriveUpstreamError{
		Status:  resp.StatusCode,
		Message: "Failed to download file from drive",
		Details: strings.TrimSpace(string(body)),
	}

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		result.Details = parsed.Error.Message
	}

	return result
}
