package invoicing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice queries
type InvoiceFilter struct {
	Status        *InvoiceStatus
	PaymentStatus *PaymentStatus
	ClientID      *uuid.UUID
	ClientDetail  string // Legacy name-string join for rows without a client FK
	Search        string
	OrderBy       string
	OrderDir      string
	Limit         int
}

// InvoiceRepository is the persistence port for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Invoice, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	ExistsByNumber(ctx context.Context, ownerID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists with an optimistic version check and fails with
	// shared.ErrConcurrencyConflict when the row changed underneath.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter InvoiceFilter) (int64, error)
}
