package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// decodeJSON parses the request body into dst, translating malformed input
// into a 400-class AppError.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.ValidationError("Invalid request body").WithCause(err)
	}
	return nil
}
