package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthHandler reports liveness and which WhatsApp credentials are set.
type HealthHandler struct {
	check ConfigCheck
}

// NewHealthHandler creates a HealthHandler for the given credential
// presence flags, computed once at startup.
func NewHealthHandler(check ConfigCheck) *HealthHandler {
	return &HealthHandler{check: check}
}

// RegisterRoutes registers the health route with the given router.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now(),
		ConfigCheck: h.check,
	})
}
