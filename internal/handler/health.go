package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/forgo/iglesia/api/internal/model"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and database health
type HealthHandler struct {
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a health handler. db may be nil when the process
// has no external database (in-memory store).
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) error {
	resp := HealthResponse{
		Status:   "ok",
		Database: "memory",
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			return model.WrapError(err, http.StatusServiceUnavailable, "database unavailable")
		}
		resp.Database = "ok"
	}

	WriteJSON(w, http.StatusOK, resp)
	return nil
}
