package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthHandler answers load-balancer probes.
type HealthHandler struct {
	started time.Time
}

func NewHealthHandler() *HealthHandler { return &HealthHandler{started: time.Now()} }

type healthBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Uptime  string `json:"uptime"`
}

// Ping serves /health-check/ping; any other action is a bad request.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "action") != "ping" {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}
	writeJSON(w, http.StatusOK, healthBody{
		Success: true,
		Message: "pong",
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}
