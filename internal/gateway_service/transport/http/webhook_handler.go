package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/app"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// WebhookHandler serves the Meta webhook endpoint: the GET verification
// handshake and the POST event deliveries.
type WebhookHandler struct {
	processor   *app.WebhookProcessor
	verifyToken string
	logger      *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(processor *app.WebhookProcessor, verifyToken string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor:   processor,
		verifyToken: verifyToken,
		logger:      logger.With("handler", "webhook"),
	}
}

// RegisterRoutes registers the webhook routes with the given router.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.handleVerification)
	r.Post("/webhook", h.handleEvent)
}

// handleVerification implements the hub.challenge subscription handshake.
func (h *WebhookHandler) handleVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		h.logger.InfoContext(ctx, "Webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	h.logger.WarnContext(ctx, "Webhook verification failed",
		"mode", mode, "token_match", token == h.verifyToken)
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("Verification failed"))
}

// handleEvent processes a webhook delivery. The provider expects a 200 for
// anything it should not retry, so an unparseable body is logged and still
// acknowledged; only a failure to read the request at all answers 500.
func (h *WebhookHandler) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("ERROR"))
		return
	}
	defer r.Body.Close()

	var payload domain.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.WarnContext(ctx, "Acknowledging unparseable webhook body",
			"error", fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err))
	} else {
		h.processor.Process(ctx, &payload)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("EVENT_RECEIVED"))
}
