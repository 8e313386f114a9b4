package whatsapp

import (
	"context"
	"encoding/json"
)

// SendResult holds the outcome of a successful send call.
type SendResult struct {
	// MessageID is the provider-assigned id (messages[0].id). Empty when
	// the response shape was unexpected; that is not a failure.
	MessageID string
	// Raw is the provider's response body, passed back to API callers.
	Raw json.RawMessage
}

// Sender is the outbound side of the Cloud API, narrowed to what the
// gateway uses.
type Sender interface {
	SendText(ctx context.Context, to, body string) (*SendResult, error)
}
