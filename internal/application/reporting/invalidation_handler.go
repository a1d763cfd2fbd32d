package reporting

import (
	"context"

	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvalidationHandler drops an owner's cached dashboards whenever one of
// their invoices changes, so the next read recomputes from a fresh
// snapshot.
type InvalidationHandler struct {
	cache  DashboardCache
	logger *zap.Logger
}

// NewInvalidationHandler creates a new InvalidationHandler
func NewInvalidationHandler(cache DashboardCache, logger *zap.Logger) *InvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the invoice events that stale a dashboard
func (h *InvalidationHandler) EventTypes() []string {
	return []string{
		invoicing.EventInvoiceCreated,
		invoicing.EventInvoiceUpdated,
		invoicing.EventInvoiceDeleted,
		invoicing.EventPaymentRecorded,
		invoicing.EventPaymentAdjusted,
		invoicing.EventPaymentRemoved,
	}
}

// Handle invalidates the owner's cached dashboards
func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.cache == nil {
		return nil
	}
	h.cache.Invalidate(ctx, event.OwnerID())
	h.logger.Debug("dashboard cache invalidated",
		zap.String("event_type", event.EventType()),
		zap.String("owner_id", event.OwnerID().String()),
	)
	return nil
}
