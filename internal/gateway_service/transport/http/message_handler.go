package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/app"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// Dispatcher is the slice of app.MessageDispatcher the handler needs.
type Dispatcher interface {
	SendText(ctx context.Context, recipient, text string) (*app.DispatchResult, error)
}

// MessageHandler serves the send and list endpoints backed by the message
// log.
type MessageHandler struct {
	dispatcher Dispatcher
	repo       domain.MessageRepository
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(dispatcher Dispatcher, repo domain.MessageRepository, validate *validator.Validate, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		dispatcher: dispatcher,
		repo:       repo,
		validate:   validate,
		logger:     logger.With("handler", "message"),
	}
}

// RegisterRoutes registers message routes with the given router.
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/send_message", h.handleSendMessage)
	r.Get("/get_messages", h.handleGetMessages)
	r.Get("/debug/messages", h.handleDebugMessages)
}

func (h *MessageHandler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "Failed to decode send message request", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Send message request failed validation", "error", err)
		h.writeError(w, http.StatusBadRequest, "Recipient ID and message text are required.")
		return
	}

	result, err := h.dispatcher.SendText(ctx, req.RecipientWaID, req.MessageText)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			h.writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		var upstreamErr *domain.UpstreamError
		if errors.As(err, &upstreamErr) {
			logger.ErrorContext(ctx, "Upstream send failure",
				"status_code", upstreamErr.StatusCode, "body", upstreamErr.Body)
			h.writeError(w, http.StatusInternalServerError, "Error sending WhatsApp message: "+upstreamErr.Error())
			return
		}
		logger.ErrorContext(ctx, "Unexpected send failure", "error", err)
		h.writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.writeJSON(w, http.StatusOK, SendMessageResponse{
		Status:    "success",
		Data:      result.Response,
		MessageID: result.MessageID,
	})
}

func (h *MessageHandler) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	messages := h.repo.AllSorted(r.Context())
	if messages == nil {
		messages = []domain.Message{}
	}
	h.writeJSON(w, http.StatusOK, MessagesResponse{Messages: messages, Count: len(messages)})
}

func (h *MessageHandler) handleDebugMessages(w http.ResponseWriter, r *http.Request) {
	messages := h.repo.All(r.Context())
	if messages == nil {
		messages = []domain.Message{}
	}
	h.writeJSON(w, http.StatusOK, DebugMessagesResponse{
		TotalMessages: len(messages),
		Messages:      messages,
		Timestamp:     time.Now(),
	})
}

func (h *MessageHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response body", "error", err)
	}
}

func (h *MessageHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Status: "error", Message: message})
}
