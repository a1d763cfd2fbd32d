package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// PaymentService handles ledger mutations on invoices. Every operation is
// a read-modify-write guarded by the invoice's version, so two concurrent
// edits to the same ledger surface as a CONCURRENCY_CONFLICT instead of a
// silent lost update.
type PaymentService struct {
	invoiceRepo invoicing.InvoiceRepository
	eventBus    shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(invoiceRepo invoicing.InvoiceRepository, eventBus shared.EventPublisher) *PaymentService {
	return &PaymentService{
		invoiceRepo: invoiceRepo,
		eventBus:    eventBus,
	}
}

// Record appends a payment to an invoice's ledger
func (s *PaymentService) Record(ctx context.Context, ownerID, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	date, err := valueobject.ParseCivilDate(req.Date)
	if err != nil {
		err = shared.NewDomainError("INVALID_DATE", "Payment date must be YYYY-MM-DD")
		telemetry.RecordError(span, err)
		return nil, err
	}

	return s.mutate(ctx, span, ownerID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.RecordPayment(req.Amount, date, req.Note)
	})
}

// Edit replaces the payment at index in an invoice's ledger
func (s *PaymentService) Edit(ctx context.Context, ownerID, invoiceID uuid.UUID, index int, req EditPaymentRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "edit")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrPaymentIndex, index,
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	date, err := valueobject.ParseCivilDate(req.Date)
	if err != nil {
		err = shared.NewDomainError("INVALID_DATE", "Payment date must be YYYY-MM-DD")
		telemetry.RecordError(span, err)
		return nil, err
	}

	return s.mutate(ctx, span, ownerID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.EditPayment(index, req.Amount, date, req.Note)
	})
}

// Delete removes the payment at index from an invoice's ledger
func (s *PaymentService) Delete(ctx context.Context, ownerID, invoiceID uuid.UUID, index int) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "delete")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrPaymentIndex, index,
	)

	return s.mutate(ctx, span, ownerID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.DeletePayment(index)
	})
}

// mutate runs one ledger operation inside the load/apply/save-with-lock
// cycle shared by all payment mutations.
func (s *PaymentService) mutate(
	ctx context.Context,
	span trace.Span,
	ownerID, invoiceID uuid.UUID,
	op func(*invoicing.Invoice) error,
) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if inv == nil {
		err = shared.NewDomainError("NOT_FOUND", "Invoice not found")
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := op(inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, inv)

	return ToInvoiceResponse(inv), nil
}

func (s *PaymentService) publishEvents(ctx context.Context, inv *invoicing.Invoice) {
	if s.eventBus == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	inv.ClearDomainEvents()
}
