package http

import (
	"encoding/json"
	"time"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// SendMessageRequest is the body of POST /send_message.
type SendMessageRequest struct {
	RecipientWaID string `json:"recipient_wa_id" validate:"required"`
	MessageText   string `json:"message_text" validate:"required"`
}

// SendMessageResponse is returned on a successful dispatch; Data is the
// provider's raw response.
type SendMessageResponse struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	MessageID string          `json:"message_id"`
}

// ErrorResponse is the uniform error body of the JSON endpoints.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessagesResponse is the body of GET /get_messages: the full log sorted
// ascending by timestamp, with a count wrapper.
type MessagesResponse struct {
	Messages []domain.Message `json:"messages"`
	Count    int              `json:"count"`
}

// DebugMessagesResponse is the body of GET /debug/messages: the raw log in
// insertion order.
type DebugMessagesResponse struct {
	TotalMessages int              `json:"total_messages"`
	Messages      []domain.Message `json:"messages"`
	Timestamp     time.Time        `json:"timestamp"`
}

// HealthResponse reports liveness plus which WhatsApp credentials are
// configured, so a missing token is visible without crashing the process.
type HealthResponse struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	ConfigCheck ConfigCheck `json:"config_check"`
}

// ConfigCheck flags presence (not validity) of each required credential.
type ConfigCheck struct {
	PhoneNumberID bool `json:"phone_number_id"`
	AccessToken   bool `json:"access_token"`
	VerifyToken   bool `json:"verify_token"`
}
