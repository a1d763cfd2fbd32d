package invoicing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax rate applied to every invoice. The product has no
// tax-rule engine; the rate is fixed at zero and the tax line exists only so
// the totals triple (subtotal, tax, amountDue) stays structurally complete.
var TaxRate = decimal.Zero

// PaymentStatus classifies an invoice's payment progress. It is always
// derived from (amountPaid, amountDue) via ClassifyPaymentStatus and never
// set independently of a ledger mutation.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending" // No payments recorded
	PaymentStatusPartial PaymentStatus = "Partial" // 0 < amountPaid < amountDue
	PaymentStatusPaid    PaymentStatus = "Paid"    // Fully paid
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// InvoiceStatus is the lifecycle flag for whether an invoice has been
// finalized, independent of payment status. Draft invoices are unissued and
// excluded from every financial rollup.
type InvoiceStatus string

const (
	InvoiceStatusDraft      InvoiceStatus = "Draft"
	InvoiceStatusRegistered InvoiceStatus = "Registered"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusRegistered
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// LineItem is a single billed service line
type LineItem struct {
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount returns qty * rate for this line
func (li LineItem) Amount() decimal.Decimal {
	return li.Qty.Mul(li.Rate)
}

// LineItems is an ordered list of line items stored as JSONB
type LineItems []LineItem

// Subtotal returns the sum of all line amounts
func (items LineItems) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Amount())
	}
	return total
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (items *LineItems) Scan(value interface{}) error {
	return scanJSON(value, items, "LineItems")
}

// IssuerSnapshot is a frozen copy of the issuing company profile taken at
// invoice save time, so historical invoices render with the details that
// were true when issued. Stored as JSONB.
type IssuerSnapshot struct {
	CompanyName  string `json:"companyName"`
	Address      string `json:"address"`
	CityStateZip string `json:"cityStateZip"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website,omitempty"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s IssuerSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *IssuerSnapshot) Scan(value interface{}) error {
	return scanJSON(value, s, "IssuerSnapshot")
}

// scanJSON decodes a JSONB column into dst
func scanJSON(value interface{}, dst interface{}, what string) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan " + what + ": unsupported type")
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dst)
}

// Invoice is the billing document aggregate root. It owns the payment
// ledger for the amounts billed to a client and keeps the derived totals
// (subtotal, tax, amountDue) and the derived payment status consistent
// across every mutation.
type Invoice struct {
	shared.OwnedAggregateRoot
	Number        string // Display code, e.g. INV-#2024-0842
	ProjectName   string
	ClientID      *uuid.UUID // Stable reference to the client record; nil for legacy rows
	ClientDetail  string     // Point-in-time snapshot of the client name
	ClientContact string
	ClientAddress string
	IssueDate     valueobject.CivilDate
	DueDate       valueobject.CivilDate
	Items         LineItems
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	AmountDue     decimal.Decimal
	AmountPaid    decimal.Decimal
	Payments      Payments
	PaymentStatus PaymentStatus
	Status        InvoiceStatus
	CompanyID     *uuid.UUID
	Issuer        IssuerSnapshot
}

// DueDateDefaultDays is how far after the issue date the due date defaults.
const DueDateDefaultDays = 7

// NewInvoiceInput carries the fields needed to create an invoice
type NewInvoiceInput struct {
	Number        string
	ProjectName   string
	ClientID      *uuid.UUID
	ClientDetail  string
	ClientContact string
	ClientAddress string
	IssueDate     valueobject.CivilDate
	DueDate       valueobject.CivilDate
	Items         LineItems
	Status        InvoiceStatus
	CompanyID     *uuid.UUID
	Issuer        IssuerSnapshot
}

// NewInvoice creates a new invoice with derived totals computed from the
// line items. The payment ledger starts empty and the payment status starts
// at Pending.
func NewInvoice(ownerID uuid.UUID, input NewInvoiceInput) (*Invoice, error) {
	if input.Number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if input.ProjectName == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project name is required")
	}
	if input.IssueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue date is required")
	}
	if !input.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invoice status is not valid")
	}
	for _, li := range input.Items {
		if li.Qty.IsNegative() || li.Rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ITEM", "Line item qty and rate must be non-negative")
		}
	}

	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = input.IssueDate.AddDays(DueDateDefaultDays)
	}

	inv := &Invoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Number:             input.Number,
		ProjectName:        input.ProjectName,
		ClientID:           input.ClientID,
		ClientDetail:       input.ClientDetail,
		ClientContact:      input.ClientContact,
		ClientAddress:      input.ClientAddress,
		IssueDate:          input.IssueDate,
		DueDate:            dueDate,
		Items:              input.Items,
		AmountPaid:         decimal.Zero,
		Payments:           Payments{},
		PaymentStatus:      PaymentStatusPending,
		Status:             input.Status,
		CompanyID:          input.CompanyID,
		Issuer:             input.Issuer,
	}
	inv.recomputeTotals()

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// UpdateDetails overwrites the editable invoice fields and recomputes the
// derived totals. The payment ledger is untouched; the payment status is
// reclassified against the new amount due so that raising or lowering the
// billed amount keeps the status consistent with the ledger.
func (inv *Invoice) UpdateDetails(input NewInvoiceInput) error {
	if input.ProjectName == "" {
		return shared.NewDomainError("INVALID_PROJECT", "Project name is required")
	}
	if input.IssueDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Issue date is required")
	}
	if !input.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invoice status is not valid")
	}
	for _, li := range input.Items {
		if li.Qty.IsNegative() || li.Rate.IsNegative() {
			return shared.NewDomainError("INVALID_ITEM", "Line item qty and rate must be non-negative")
		}
	}

	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = input.IssueDate.AddDays(DueDateDefaultDays)
	}

	if input.Number != "" {
		inv.Number = input.Number
	}
	inv.ProjectName = input.ProjectName
	inv.ClientID = input.ClientID
	inv.ClientDetail = input.ClientDetail
	inv.ClientContact = input.ClientContact
	inv.ClientAddress = input.ClientAddress
	inv.IssueDate = input.IssueDate
	inv.DueDate = dueDate
	inv.Items = input.Items
	inv.Status = input.Status
	inv.CompanyID = input.CompanyID
	inv.Issuer = input.Issuer
	inv.recomputeTotals()
	inv.PaymentStatus = ClassifyPaymentStatus(inv.AmountPaid, inv.AmountDue)

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceUpdatedEvent(inv))

	return nil
}

// recomputeTotals derives subtotal, tax, and amountDue together from the
// line items. These three fields are never partially updated.
func (inv *Invoice) recomputeTotals() {
	inv.Subtotal = inv.Items.Subtotal()
	inv.Tax = inv.Subtotal.Mul(TaxRate)
	inv.AmountDue = inv.Subtotal.Add(inv.Tax)
}

// RemainingBalance returns amountDue - amountPaid
func (inv *Invoice) RemainingBalance() decimal.Decimal {
	return inv.AmountDue.Sub(inv.AmountPaid)
}

// IsDraft returns true if the invoice has not been finalized
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.PaymentStatus == PaymentStatusPaid
}

// PaymentCount returns the number of payments recorded
func (inv *Invoice) PaymentCount() int {
	return len(inv.Payments)
}

// RenderSnapshot is the plain data handed to an external renderer. All
// totals are pre-derived; the renderer performs no further computation.
type RenderSnapshot struct {
	Number        string                `json:"invoiceId"`
	ProjectName   string                `json:"projectName"`
	ClientDetail  string                `json:"clientDetail"`
	ClientContact string                `json:"clientContact"`
	ClientAddress string                `json:"clientAddress"`
	IssueDate     valueobject.CivilDate `json:"issueDate"`
	DueDate       valueobject.CivilDate `json:"dueDate"`
	Items         LineItems             `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Tax           decimal.Decimal       `json:"tax"`
	AmountDue     decimal.Decimal       `json:"amountDue"`
	AmountPaid    decimal.Decimal       `json:"amountPaid"`
	Balance       decimal.Decimal       `json:"balance"`
	PaymentStatus PaymentStatus         `json:"paymentStatus"`
	Status        InvoiceStatus         `json:"status"`
	Issuer        IssuerSnapshot        `json:"issuer"`
}

// Render returns the renderer-facing snapshot of this invoice
func (inv *Invoice) Render() RenderSnapshot {
	return RenderSnapshot{
		Number:        inv.Number,
		ProjectName:   inv.ProjectName,
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
		PaymentStatus: inv.PaymentStatus,
		Status:        inv.Status,
		Issuer:        inv.Issuer,
	}
}
