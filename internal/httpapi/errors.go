package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/leaderboard"
	"github.com/rshade/ecoquest/internal/logging"
)

// Error codes in JSON error bodies.
const (
	codeInvalidRequest   = "invalid_request"
	codeUnauthenticated  = "unauthenticated"
	codeForbidden        = "forbidden"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeConflict         = "conflict"
	codeInternal         = "internal"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errInvalidRequest marks handler-level validation failures.
var errInvalidRequest = errors.New("invalid request")

// writeJSON encodes v before sending any header so that an unencodable
// value becomes a 500 instead of a success status with an empty body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error().Ctx(r.Context()).
			Err(err).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("encoding response failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	writeBody(w, status, buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	// ErrorBody holds only strings and always encodes.
	b, _ := json.Marshal(ErrorBody{Error: code, Message: msg})
	writeBody(w, status, append(b, '\n'))
}

func writeBody(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

// writeServiceError maps workflow errors onto status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidSort leaderboard.ErrInvalidSort

	switch {
	case errors.Is(err, activity.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing "+HeaderUser+" header")
	case errors.Is(err, activity.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, activity.ErrActivityNotFound), errors.Is(err, activity.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, activity.ErrDuplicateCategory):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, activity.ErrUnknownCategory),
		errors.Is(err, activity.ErrEmptyActivityType),
		errors.Is(err, activity.ErrInvalidDate),
		errors.Is(err, activity.ErrInvalidTarget),
		errors.Is(err, activity.ErrInvalidFootprint),
		errors.Is(err, errInvalidRequest),
		errors.As(err, &invalidSort):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		s.logger.Error().Ctx(r.Context()).Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
