package reporting

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// StreamHub fans invoice change events out to per-owner subscribers so the
// dashboard stream endpoint can push refreshed metrics. Notifications are
// coalescing ticks, not event payloads: a slow consumer sees at most one
// pending tick and recomputes from the current snapshot when it catches up.
type StreamHub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan struct{}]struct{}
}

// NewStreamHub creates an empty hub. Register it on the event bus so
// Handle receives invoice and payment events.
func NewStreamHub() *StreamHub {
	return &StreamHub{
		subscribers: make(map[uuid.UUID]map[chan struct{}]struct{}),
	}
}

// EventTypes lists the events that should wake dashboard streams.
func (h *StreamHub) EventTypes() []string {
	return []string{
		invoicing.EventInvoiceCreated,
		invoicing.EventInvoiceUpdated,
		invoicing.EventInvoiceDeleted,
		invoicing.EventInvoicePaid,
		invoicing.EventPaymentRecorded,
		invoicing.EventPaymentAdjusted,
		invoicing.EventPaymentRemoved,
	}
}

// Handle notifies every subscriber belonging to the event's owner.
func (h *StreamHub) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[event.OwnerID()] {
		select {
		case ch <- struct{}{}:
		default:
			// A tick is already pending; the subscriber will recompute anyway.
		}
	}
	return nil
}

// Subscribe registers a notification channel for ownerID. The returned
// cancel function must be called when the consumer goes away.
func (h *StreamHub) Subscribe(ownerID uuid.UUID) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	owner := h.subscribers[ownerID]
	if owner == nil {
		owner = make(map[chan struct{}]struct{})
		h.subscribers[ownerID] = owner
	}
	owner[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if owner, ok := h.subscribers[ownerID]; ok {
			delete(owner, ch)
			if len(owner) == 0 {
				delete(h.subscribers, ownerID)
			}
		}
	}
	return ch, cancel
}

// SubscriberCount reports the number of active streams for an owner.
func (h *StreamHub) SubscriberCount(ownerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[ownerID])
}

var _ shared.EventHandler = (*StreamHub)(nil)
