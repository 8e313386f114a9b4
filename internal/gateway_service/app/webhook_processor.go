package app

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// expectedObject is the top-level discriminator of webhook deliveries the
// gateway acts on; anything else is a benign no-op.
const expectedObject = "whatsapp_business_account"

// WebhookProcessor normalizes inbound webhook deliveries into stored
// messages and correlates delivery-status events back onto previously sent
// ones.
type WebhookProcessor struct {
	repo   domain.MessageRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewWebhookProcessor creates a WebhookProcessor backed by the given
// message log.
func NewWebhookProcessor(repo domain.MessageRepository, logger *slog.Logger) *WebhookProcessor {
	return &WebhookProcessor{
		repo:   repo,
		logger: logger.With("component", "webhook_processor"),
		now:    time.Now,
	}
}

// Process walks one webhook payload in entry/change order. A single bad
// event is skipped, never fatal to the rest of the batch, and nothing here
// returns an error: the webhook contract is to acknowledge regardless.
func (p *WebhookProcessor) Process(ctx context.Context, payload *domain.WebhookPayload) {
	if payload.Object != expectedObject {
		p.logger.DebugContext(ctx, "Ignoring webhook for unexpected object", "object", payload.Object)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				p.logger.DebugContext(ctx, "Ignoring webhook change", "field", change.Field, "entry_id", entry.ID)
				continue
			}
			// One change value can carry both inbound messages and status
			// updates; process both.
			for _, msg := range change.Value.Messages {
				p.storeInbound(ctx, msg)
			}
			for _, status := range change.Value.Statuses {
				p.applyStatus(ctx, status)
			}
		}
	}
}

func (p *WebhookProcessor) storeInbound(ctx context.Context, msg domain.InboundMessage) {
	text := deriveText(msg)
	if msg.From == "" || text == "" {
		webhookEventsCounter.WithLabelValues("message_dropped").Inc()
		p.logger.WarnContext(ctx, "Dropping inbound message with missing sender or text",
			"message_id", msg.ID, "type", msg.Type)
		return
	}

	p.repo.Append(ctx, domain.Message{
		ID:        msg.ID,
		Sender:    msg.From,
		Text:      text,
		Direction: domain.DirectionInbound,
		Type:      msg.Type,
		Timestamp: p.now(),
	})
	webhookEventsCounter.WithLabelValues("message").Inc()
	p.logger.InfoContext(ctx, "Stored inbound message",
		"message_id", msg.ID, "from", msg.From, "type", msg.Type)
}

func (p *WebhookProcessor) applyStatus(ctx context.Context, status domain.StatusUpdate) {
	at := parseEpochString(status.Timestamp)

	updated := p.repo.UpdateDeliveryStatus(ctx, status.ID, domain.DeliveryStatus(status.Status), at)
	if !updated {
		// Not an error: the status event may precede the send's append or
		// reference a message this process never tracked.
		webhookEventsCounter.WithLabelValues("status_unmatched").Inc()
		p.logger.DebugContext(ctx, "Discarding status update for untracked message",
			"message_id", status.ID, "status", status.Status, "recipient_id", status.RecipientID)
		return
	}
	webhookEventsCounter.WithLabelValues("status").Inc()
	p.logger.InfoContext(ctx, "Updated delivery status",
		"message_id", status.ID, "status", status.Status, "recipient_id", status.RecipientID)
}

// deriveText produces the display body for an inbound message, dispatching
// on its type. An empty result means the message carries nothing storable.
func deriveText(msg domain.InboundMessage) string {
	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return ""
		}
		return msg.Text.Body
	case "image":
		return "[Image] " + mediaCaption(msg.Image)
	case "document":
		filename := "Unknown file"
		if msg.Document != nil && msg.Document.Filename != "" {
			filename = msg.Document.Filename
		}
		return "[Document] " + filename
	case "audio":
		return "[Audio message]"
	case "video":
		return "[Video] " + mediaCaption(msg.Video)
	case "":
		return ""
	default:
		return "[" + strings.ToUpper(msg.Type) + " message]"
	}
}

func mediaCaption(m *domain.MediaContent) string {
	if m == nil || m.Caption == "" {
		return "No caption"
	}
	return m.Caption
}

// parseEpochString converts the provider's string-encoded unix epoch to a
// time. It returns nil when the field is absent or unparseable; the status
// timestamp is then left untouched rather than fabricated.
func parseEpochString(s string) *time.Time {
	if s == "" {
		return nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
