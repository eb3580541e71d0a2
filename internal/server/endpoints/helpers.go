package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/campaign"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/session"
	"github.com/jackzampolin/presence/internal/studio"
	"github.com/jackzampolin/presence/internal/svcctx"
)

// maxBodyBytes bounds JSON request bodies, history imports included.
const maxBodyBytes = 4 << 20

// ErrorResponse is a standard error response.
type ErrorResponse = api.ErrorResponse

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps errors from the session and studio layers onto
// HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *brief.ValidationError
	var rlerr *studio.RateLimitedError
	var ierr *history.ImportError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:    "invalid brief",
			Problems: verr.Problems,
		})
	case errors.As(err, &rlerr):
		secs := rlerr.WaitSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error:             err.Error(),
			RetryAfterSeconds: secs,
		})
	case errors.As(err, &ierr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, studio.ErrUnknownAction):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, studio.ErrEmptyText),
		errors.Is(err, history.ErrIndexOutOfRange),
		errors.Is(err, campaign.ErrUnknownChannel):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v unchanged.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sessionFrom resolves the {id} path parameter. On failure the error
// response has been written and ok is false.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id required")
		return nil, false
	}
	sessions := svcctx.SessionsFrom(r.Context())
	if sessions == nil {
		writeError(w, http.StatusInternalServerError, "session manager not available")
		return nil, false
	}
	st, err := sessions.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return st, true
}

// studioFrom returns the studio or writes a 500.
func studioFrom(w http.ResponseWriter, r *http.Request) (*studio.Studio, bool) {
	s := svcctx.StudioFrom(r.Context())
	if s == nil {
		writeError(w, http.StatusInternalServerError, "studio not available")
		return nil, false
	}
	return s, true
}

func sessionPath(id string, parts ...string) string {
	p := "/api/sessions/" + id
	for _, part := range parts {
		p += "/" + part
	}
	return p
}
