package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/a1exx55/server-backend-sub000/internal/api/problem"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// healthCheckTimeout bounds the readiness probe's database round-trip so a
// stalled database doesn't hang a Kubernetes probe indefinitely.
const healthCheckTimeout = 5 * time.Second

// HealthHandler serves the unauthenticated liveness/readiness endpoints.
type HealthHandler struct {
	store     store.Store
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler backed by st.
func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st, startTime: time.Now()}
}

// Liveness handles GET /health. It always succeeds as long as the HTTP
// server itself is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	problem.WriteJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"service":    "uploadsvc",
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
	}))
}

// Readiness handles GET /health/ready. It round-trips the store with a
// cheap query to confirm the database connection is alive.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if _, err := h.store.IsAdminInitialized(ctx); err != nil {
		problem.WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse("database unreachable: "+err.Error()))
		return
	}

	problem.WriteJSON(w, http.StatusOK, healthyResponse(nil))
}
