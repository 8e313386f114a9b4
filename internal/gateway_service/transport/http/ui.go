package http

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed chat_ui.html
var chatPage []byte

// UIHandler serves the bundled single-page chat client.
type UIHandler struct{}

// NewUIHandler creates a UIHandler.
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// RegisterRoutes registers the page route with the given router.
func (h *UIHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *UIHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(chatPage)
}
