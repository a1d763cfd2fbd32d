package invoicing

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names published by the invoicing aggregate
const (
	EventInvoiceCreated  = "InvoiceCreated"
	EventInvoiceUpdated  = "InvoiceUpdated"
	EventInvoiceDeleted  = "InvoiceDeleted"
	EventInvoicePaid     = "InvoicePaid"
	EventPaymentRecorded = "PaymentRecorded"
	EventPaymentAdjusted = "PaymentAdjusted"
	EventPaymentRemoved  = "PaymentRemoved"
)

const aggregateTypeInvoice = "Invoice"

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Number      string          `json:"number"`
	ProjectName string          `json:"project_name"`
	AmountDue   decimal.Decimal `json:"amount_due"`
	Status      InvoiceStatus   `json:"status"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCreated, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		ProjectName:     inv.ProjectName,
		AmountDue:       inv.AmountDue,
		Status:          inv.Status,
	}
}

// InvoiceUpdatedEvent is raised when invoice details are overwritten
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	AmountDue decimal.Decimal `json:"amount_due"`
	Status    InvoiceStatus   `json:"status"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(inv *Invoice) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceUpdated, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		AmountDue:       inv.AmountDue,
		Status:          inv.Status,
	}
}

// InvoiceDeletedEvent is raised when an invoice is removed. Deletion is
// immediate and irreversible; there is no tombstone.
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(inv *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceDeleted, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
	}
}

// InvoicePaidEvent is raised when the payment status transitions to Paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Number     string          `json:"number"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoicePaid, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		AmountDue:       inv.AmountDue,
		AmountPaid:      inv.AmountPaid,
	}
}

// PaymentRecordedEvent is raised when a payment is appended to the ledger
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Status     PaymentStatus   `json:"payment_status"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(inv *Invoice, amount decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentRecorded, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		Amount:          amount,
		AmountPaid:      inv.AmountPaid,
		Status:          inv.PaymentStatus,
	}
}

// PaymentAdjustedEvent is raised when a ledger entry is edited in place
type PaymentAdjustedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Number     string          `json:"number"`
	Index      int             `json:"index"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Status     PaymentStatus   `json:"payment_status"`
}

// NewPaymentAdjustedEvent creates a new PaymentAdjustedEvent
func NewPaymentAdjustedEvent(inv *Invoice, index int) *PaymentAdjustedEvent {
	return &PaymentAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentAdjusted, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		Index:           index,
		AmountPaid:      inv.AmountPaid,
		Status:          inv.PaymentStatus,
	}
}

// PaymentRemovedEvent is raised when a ledger entry is deleted
type PaymentRemovedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Number     string          `json:"number"`
	Index      int             `json:"index"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Status     PaymentStatus   `json:"payment_status"`
}

// NewPaymentRemovedEvent creates a new PaymentRemovedEvent
func NewPaymentRemovedEvent(inv *Invoice, index int) *PaymentRemovedEvent {
	return &PaymentRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentRemoved, aggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		Index:           index,
		AmountPaid:      inv.AmountPaid,
		Status:          inv.PaymentStatus,
	}
}
