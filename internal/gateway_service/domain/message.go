package domain

import "time"

// Direction indicates whether a message entered the gateway from WhatsApp
// or was sent out through it.
type Direction string

const (
	DirectionInbound  Direction = "in"
	DirectionOutbound Direction = "out"
)

// DeliveryStatus is the provider-reported delivery state of an outbound
// message. The Cloud API can report further values; anything it sends is
// stored verbatim, these constants just name the common ones.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
	StatusFailed    DeliveryStatus = "failed"
)

// Message is the canonical stored form of one inbound or outbound WhatsApp
// message. ID, Text, Direction and Timestamp are fixed at creation; only
// Status and StatusUpdatedAt are ever mutated afterwards, and only for
// outbound messages.
type Message struct {
	// ID is the provider-assigned message id (wamid). It can be empty when
	// the provider response had an unexpected shape.
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient,omitempty"` // outbound only
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Type      string    `json:"type,omitempty"` // inbound only: text, image, document, ...
	Timestamp time.Time `json:"timestamp"`

	// Status is set to "sent" when an outbound message is created and is
	// overwritten by whatever the provider reports next; transitions are
	// not validated, the last event wins.
	Status DeliveryStatus `json:"status,omitempty"`
	// StatusUpdatedAt is the provider timestamp of the most recent status
	// event, unset until the first one arrives.
	StatusUpdatedAt *time.Time `json:"timestamp_status_update,omitempty"`
}
