package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/domain"
)

// MessageRepository is an in-memory, process-lifetime message log.
// A single coarse mutex covers every operation so that a status update
// can never be lost against a concurrent append or read.
type MessageRepository struct {
	mu       sync.Mutex
	messages []domain.Message
}

// NewMessageRepository creates an empty in-memory message log.
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Append(_ context.Context, msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *MessageRepository) All(_ context.Context) []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *MessageRepository) AllSorted(ctx context.Context) []domain.Message {
	out := r.All(ctx)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (r *MessageRepository) FindByIDAndDirection(_ context.Context, id string, dir domain.Direction) (domain.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id && r.messages[i].Direction == dir {
			return r.messages[i], true
		}
	}
	return domain.Message{}, false
}

func (r *MessageRepository) UpdateDeliveryStatus(_ context.Context, id string, status domain.DeliveryStatus, at *time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	// First match in insertion order; ids should be unique among outbound
	// messages, but if duplicates exist the earliest-inserted one wins.
	for i := range r.messages {
		if r.messages[i].ID == id && r.messages[i].Direction == domain.DirectionOutbound {
			r.messages[i].Status = status
			if at != nil {
				t := *at
				r.messages[i].StatusUpdatedAt = &t
			}
			return true
		}
	}
	return false
}
