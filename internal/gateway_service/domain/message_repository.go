package domain

import (
	"context"
	"time"
)

// MessageRepository is the message log. Creation is append-only; the only
// in-place mutation allowed is the delivery-status pair of an existing
// outbound message, and implementations must serialize that mutation
// against appends and reads.
type MessageRepository interface {
	// Append adds a message to the end of the log. It never fails for a
	// valid message and never deduplicates: replaying the same webhook
	// stores the same message twice.
	Append(ctx context.Context, msg Message)

	// All returns a snapshot of the log in insertion order.
	All(ctx context.Context) []Message

	// AllSorted returns a snapshot ordered ascending by Timestamp.
	AllSorted(ctx context.Context) []Message

	// FindByIDAndDirection returns a copy of the first message in
	// insertion order matching both id and direction.
	FindByIDAndDirection(ctx context.Context, id string, dir Direction) (Message, bool)

	// UpdateDeliveryStatus locates the first outbound message with the
	// given id and overwrites its status; when at is non-nil the status
	// timestamp is set too, otherwise it is left as is. It reports whether
	// a message was updated.
	UpdateDeliveryStatus(ctx context.Context, id string, status DeliveryStatus, at *time.Time) bool
}
