package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photovault/internal/common"
)

// writeJSON emits the response envelope every endpoint uses. Extra fields
// are merged next to the success flag.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]any{"success": status < 400}
	for k, v := range payload {
		body[k] = v
	}

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// failWith maps a service error onto the HTTP taxonomy. Client errors keep
// their message; internal failures are logged with the root cause and
// reported generically so nothing leaks.
func (s *Server) failWith(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorDuplicateCollection), errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrorInvalidName),
		errors.Is(err, common.ErrorUnsupportedType),
		errors.Is(err, common.ErrorNoFile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
