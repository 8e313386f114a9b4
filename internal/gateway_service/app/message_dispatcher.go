package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/adapters/whatsapp"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// DispatchResult is returned to the API caller after a successful send.
type DispatchResult struct {
	// MessageID is the provider-assigned id; empty if the provider's
	// response had an unexpected shape.
	MessageID string
	// Response is the provider's raw response body.
	Response json.RawMessage
}

// MessageDispatcher sends outbound messages through the Cloud API and
// records them in the message log on success.
type MessageDispatcher struct {
	client        whatsapp.Sender
	repo          domain.MessageRepository
	logger        *slog.Logger
	phoneNumberID string
	now           func() time.Time
}

// NewMessageDispatcher creates a dispatcher. phoneNumberID becomes the
// sender of every outbound message it records.
func NewMessageDispatcher(client whatsapp.Sender, repo domain.MessageRepository, phoneNumberID string, logger *slog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		client:        client,
		repo:          repo,
		logger:        logger.With("component", "message_dispatcher"),
		phoneNumberID: phoneNumberID,
		now:           time.Now,
	}
}

// SendText validates the input, calls the provider and appends an outbound
// message with status "sent". Nothing is appended on any failure.
func (d *MessageDispatcher) SendText(ctx context.Context, recipient, text string) (*DispatchResult, error) {
	if recipient == "" {
		dispatchCounter.WithLabelValues("validation_error").Inc()
		return nil, &domain.ValidationError{Reason: "recipient is required"}
	}
	if text == "" {
		dispatchCounter.WithLabelValues("validation_error").Inc()
		return nil, &domain.ValidationError{Reason: "message text is required"}
	}

	// Internal id for log correlation until the provider assigns one.
	dispatchID := uuid.NewString()
	logger := d.logger.With("dispatch_id", dispatchID, "recipient", recipient)
	logger.InfoContext(ctx, "Dispatching outbound message")

	start := d.now()
	result, err := d.client.SendText(ctx, recipient, text)
	providerRequestDurationHist.WithLabelValues("send_text").Observe(d.now().Sub(start).Seconds())
	if err != nil {
		var upstreamErr *domain.UpstreamError
		if errors.As(err, &upstreamErr) {
			dispatchCounter.WithLabelValues("upstream_error").Inc()
			logger.ErrorContext(ctx, "Provider rejected outbound message",
				"status_code", upstreamErr.StatusCode, "body", upstreamErr.Body)
		} else {
			dispatchCounter.WithLabelValues("upstream_error").Inc()
			logger.ErrorContext(ctx, "Outbound send failed", "error", err)
		}
		return nil, err
	}

	d.repo.Append(ctx, domain.Message{
		ID:        result.MessageID,
		Sender:    d.phoneNumberID,
		Recipient: recipient,
		Text:      text,
		Direction: domain.DirectionOutbound,
		Timestamp: d.now(),
		Status:    domain.StatusSent,
	})
	dispatchCounter.WithLabelValues("success").Inc()
	logger.InfoContext(ctx, "Outbound message recorded", "provider_message_id", result.MessageID)

	return &DispatchResult{MessageID: result.MessageID, Response: result.Raw}, nil
}
