package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/customerr"
)

const actorHeader = "X-User-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondError maps the model's error taxonomy onto HTTP statuses. Unknown
// errors are logged and hidden behind a 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case customerr.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case customerr.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case customerr.IsConflict(err):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("internal error", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &customerr.ValidationError{Reason: "malformed request body"}
	}
	return nil
}

func actorID(r *http.Request) (int64, error) {
	raw := r.Header.Get(actorHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &customerr.ValidationError{Reason: "missing or invalid " + actorHeader + " header"}
	}
	return id, nil
}

// shiftPath pops the first segment off a path: "/a/b/c" -> "a", "/b/c".
func shiftPath(p string) (head, rest string) {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], "/" + p[i+1:]
	}
	return p, "/"
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &customerr.ValidationError{Reason: "invalid id in path"}
	}
	return id, nil
}
