package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID                `json:"id"`
	Number        string                   `json:"number"`
	ProjectName   string                   `json:"projectName"`
	ClientID      *uuid.UUID               `json:"clientId,omitempty"`
	ClientDetail  string                   `json:"clientDetail"`
	ClientContact string                   `json:"clientContact,omitempty"`
	ClientAddress string                   `json:"clientAddress,omitempty"`
	IssueDate     valueobject.CivilDate    `json:"issueDate"`
	DueDate       valueobject.CivilDate    `json:"dueDate"`
	Items         invoicing.LineItems      `json:"items"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	Tax           decimal.Decimal          `json:"tax"`
	AmountDue     decimal.Decimal          `json:"amountDue"`
	AmountPaid    decimal.Decimal          `json:"amountPaid"`
	Balance       decimal.Decimal          `json:"balance"`
	Payments      []PaymentResponse        `json:"payments"`
	PaymentStatus invoicing.PaymentStatus  `json:"paymentStatus"`
	Status        invoicing.InvoiceStatus  `json:"status"`
	CompanyID     *uuid.UUID               `json:"companyId,omitempty"`
	Issuer        invoicing.IssuerSnapshot `json:"issuer"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
	Version       int                      `json:"version"`
}

// PaymentResponse represents one ledger entry in API responses
type PaymentResponse struct {
	Index  int                   `json:"index"`
	Date   valueobject.CivilDate `json:"date"`
	Amount decimal.Decimal       `json:"amount"`
	Note   string                `json:"note,omitempty"`
}

// LineItemRequest is one billed line in a create/update request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
}

// CreateInvoiceRequest carries the fields for creating an invoice
type CreateInvoiceRequest struct {
	Number        string            `json:"number"` // Optional; generated when empty
	ProjectName   string            `json:"projectName" binding:"required"`
	ClientID      *uuid.UUID        `json:"clientId"`
	ClientDetail  string            `json:"clientDetail"`
	ClientContact string            `json:"clientContact"`
	ClientAddress string            `json:"clientAddress"`
	IssueDate     string            `json:"issueDate" binding:"required,civildate"`
	DueDate       string            `json:"dueDate" binding:"omitempty,civildate"`
	Items         []LineItemRequest `json:"items"`
	Status        string            `json:"status"`
	CompanyID     *uuid.UUID        `json:"companyId"`
}

// UpdateInvoiceRequest carries the fields for updating an invoice
type UpdateInvoiceRequest struct {
	Number        string            `json:"number"`
	ProjectName   string            `json:"projectName" binding:"required"`
	ClientID      *uuid.UUID        `json:"clientId"`
	ClientDetail  string            `json:"clientDetail"`
	ClientContact string            `json:"clientContact"`
	ClientAddress string            `json:"clientAddress"`
	IssueDate     string            `json:"issueDate" binding:"required,civildate"`
	DueDate       string            `json:"dueDate" binding:"omitempty,civildate"`
	Items         []LineItemRequest `json:"items"`
	Status        string            `json:"status"`
	CompanyID     *uuid.UUID        `json:"companyId"`
}

// ListInvoicesRequest defines filtering options for invoice list queries
type ListInvoicesRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	ClientID      string `form:"client_id"`
	Search        string `form:"search"`
	Limit         int    `form:"limit"`
}

// RecordPaymentRequest carries a new ledger entry
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   string          `json:"date" binding:"required,civildate"`
	Note   string          `json:"note"`
}

// EditPaymentRequest carries a replacement for an existing ledger entry
type EditPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   string          `json:"date" binding:"required,civildate"`
	Note   string          `json:"note"`
}

// ToInvoiceResponse converts an invoice aggregate to its API shape
func ToInvoiceResponse(inv *invoicing.Invoice) *InvoiceResponse {
	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			Index:  i,
			Date:   p.Date,
			Amount: p.Amount,
			Note:   p.Note,
		}
	}

	return &InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		ProjectName:   inv.ProjectName,
		ClientID:      inv.ClientID,
		ClientDetail:  inv.ClientDetail,
		ClientContact: inv.ClientContact,
		ClientAddress: inv.ClientAddress,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Items:         inv.Items,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		AmountDue:     inv.AmountDue,
		AmountPaid:    inv.AmountPaid,
		Balance:       inv.RemainingBalance(),
		Payments:      payments,
		PaymentStatus: inv.PaymentStatus,
		Status:        inv.Status,
		CompanyID:     inv.CompanyID,
		Issuer:        inv.Issuer,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

func toLineItems(items []LineItemRequest) invoicing.LineItems {
	converted := make(invoicing.LineItems, len(items))
	for i, item := range items {
		converted[i] = invoicing.LineItem{
			Description: item.Description,
			Qty:         item.Qty,
			Rate:        item.Rate,
		}
	}
	return converted
}
