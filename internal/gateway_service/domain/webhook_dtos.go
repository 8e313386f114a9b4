package domain

// Webhook payload structs for the WhatsApp Business Cloud API.
// Shapes follow Meta's webhook reference; fields the gateway does not act
// on (contacts, pricing, conversation info) are either omitted or kept as
// opaque context.

// WebhookPayload is the top-level webhook delivery.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry represents one business-account entry.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange wraps a single change notification. Only changes with
// Field == "messages" carry message or status events.
type WebhookChange struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the event data of a change. A single value may carry
// inbound messages and status updates at the same time.
type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Messages         []InboundMessage `json:"messages,omitempty"`
	Statuses         []StatusUpdate   `json:"statuses,omitempty"`
}

// WebhookMetadata identifies the receiving phone number.
type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// InboundMessage is one user message delivered by the webhook. Exactly one
// of the typed payload pointers is set, matching Type.
type InboundMessage struct {
	From      string           `json:"from"`
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	Type      string           `json:"type"`
	Text      *TextContent     `json:"text,omitempty"`
	Image     *MediaContent    `json:"image,omitempty"`
	Video     *MediaContent    `json:"video,omitempty"`
	Audio     *MediaContent    `json:"audio,omitempty"`
	Document  *DocumentContent `json:"document,omitempty"`
}

// TextContent holds a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// MediaContent holds image, video and audio payloads.
type MediaContent struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// DocumentContent holds document payloads.
type DocumentContent struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// StatusUpdate is an asynchronous delivery-status event for a previously
// sent message. Timestamp is a string-encoded unix epoch, per the API.
type StatusUpdate struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}
