package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/a1exx55/server-backend-sub000/internal/api/problem"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// Response is the envelope used by the health endpoints, matching the
// status/timestamp/data/error shape the rest of this API uses for
// non-problem-details payloads.
type Response struct {
	Status    string `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

func healthyResponse(data any) Response {
	return Response{Status: "healthy", Timestamp: time.Now().UTC(), Data: data}
}

func unhealthyResponse(errMsg string) Response {
	return Response{Status: "unhealthy", Timestamp: time.Now().UTC(), Error: errMsg}
}

// decodeJSONBody decodes a JSON request body into v. On failure it writes a
// 400 problem response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		problem.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// handleStoreError maps a pkg/store sentinel error to the matching
// problem-details response.
func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound), errors.Is(err, store.ErrUploadRecordNotFound):
		problem.NotFound(w, err.Error())
	case errors.Is(err, store.ErrDuplicateUser):
		problem.Conflict(w, err.Error())
	case errors.Is(err, store.ErrUserDisabled):
		problem.Forbidden(w, err.Error())
	case errors.Is(err, store.ErrInvalidCredentials):
		problem.Unauthorized(w, err.Error())
	default:
		problem.InternalServerError(w, "internal server error")
	}
}
