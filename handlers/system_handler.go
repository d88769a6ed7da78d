package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger is implemented by the database handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health checks and the not-found page.
type SystemHandler struct {
	*Responder
	db Pinger
}

func NewSystemHandler(rs *Responder, db Pinger) *SystemHandler {
	return &SystemHandler{Responder: rs, db: db}
}

// HealthHandler reports whether the store answers within two seconds.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, body := http.StatusOK, "ok"
	if err := h.db.Ping(ctx); err != nil {
		logrus.WithError(err).Warn("Health check failed")
		status, body = http.StatusServiceUnavailable, "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": body}); err != nil {
		logrus.WithError(err).Error("Failed to write health response")
	}
}

func (h *SystemHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r)
}
