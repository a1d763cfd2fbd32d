package invoicing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// paymentTolerance is the comparison tolerance for ledger math. Historical
// records were written by clients doing float arithmetic, so equality
// checks against the billed amount allow a one-cent drift.
var paymentTolerance = decimal.New(1, -2) // 0.01

// Payment is a single payment event recorded against an invoice.
// Payments are kept in insertion order; editing replaces an entry in place
// by index and never reorders the ledger.
type Payment struct {
	Date   valueobject.CivilDate `json:"date"`
	Amount decimal.Decimal       `json:"amount"`
	Note   string                `json:"note,omitempty"`
}

// Payments is the ordered payment ledger for one invoice, stored as JSONB
type Payments []Payment

// Sum returns the total of all payment amounts
func (p Payments) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, pay := range p {
		total = total.Add(pay.Amount)
	}
	return total
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *Payments) Scan(value interface{}) error {
	if value == nil {
		*p = Payments{}
		return nil
	}
	return scanJSON(value, p, "Payments")
}

// ClassifyPaymentStatus derives the tri-state payment status from the paid
// and due amounts. This is the single classifier used by every ledger path
// (record, edit, delete) and by any other writer of paymentStatus.
func ClassifyPaymentStatus(amountPaid, amountDue decimal.Decimal) PaymentStatus {
	if amountPaid.GreaterThanOrEqual(amountDue.Sub(paymentTolerance)) {
		return PaymentStatusPaid
	}
	if amountPaid.LessThanOrEqual(paymentTolerance) {
		return PaymentStatusPending
	}
	return PaymentStatusPartial
}

// Ledger is a read-only snapshot of one invoice's billing state. Its
// operations are pure: they never mutate the snapshot and return the full
// replacement state for the caller to persist atomically.
type Ledger struct {
	AmountDue  decimal.Decimal
	AmountPaid decimal.Decimal
	Payments   Payments
}

// LedgerResult is the replacement (payments, amountPaid, paymentStatus)
// triple produced by a ledger operation
type LedgerResult struct {
	Payments   Payments
	AmountPaid decimal.Decimal
	Status     PaymentStatus
}

// Record validates and appends a new payment. The amount must be positive
// and must not exceed the remaining balance by more than the tolerance.
func (l Ledger) Record(amount decimal.Decimal, date valueobject.CivilDate, note string) (LedgerResult, error) {
	if !amount.IsPositive() {
		return LedgerResult{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	remaining := l.AmountDue.Sub(l.AmountPaid)
	if amount.GreaterThan(remaining.Add(paymentTolerance)) {
		return LedgerResult{}, shared.NewDomainError("EXCEEDS_BALANCE",
			fmt.Sprintf("Payment exceeds the remaining balance (%s)", remaining.StringFixed(2)))
	}

	updated := make(Payments, len(l.Payments), len(l.Payments)+1)
	copy(updated, l.Payments)
	updated = append(updated, Payment{Date: date, Amount: amount, Note: note})

	newPaid := l.AmountPaid.Add(amount)
	return LedgerResult{
		Payments:   updated,
		AmountPaid: newPaid,
		Status:     ClassifyPaymentStatus(newPaid, l.AmountDue),
	}, nil
}

// Edit replaces the payment at index in place. The balance check is
// re-based by adding the old amount back before comparing, so raising a
// payment up to the amount it frees is allowed. The new paid total is the
// recomputed sum of the whole ledger rather than an incremental delta, to
// guard against drift.
func (l Ledger) Edit(index int, amount decimal.Decimal, date valueobject.CivilDate, note string) (LedgerResult, error) {
	if index < 0 || index >= len(l.Payments) {
		return LedgerResult{}, shared.NewDomainError("PAYMENT_NOT_FOUND",
			fmt.Sprintf("No payment at index %d", index))
	}
	if !amount.IsPositive() {
		return LedgerResult{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	remaining := l.AmountDue.Sub(l.AmountPaid)
	adjusted := remaining.Add(l.Payments[index].Amount)
	if amount.GreaterThan(adjusted.Add(paymentTolerance)) {
		return LedgerResult{}, shared.NewDomainError("EXCEEDS_BALANCE",
			fmt.Sprintf("Payment exceeds the remaining balance (%s)", adjusted.StringFixed(2)))
	}

	updated := make(Payments, len(l.Payments))
	copy(updated, l.Payments)
	updated[index] = Payment{Date: date, Amount: amount, Note: note}

	newPaid := updated.Sum()
	return LedgerResult{
		Payments:   updated,
		AmountPaid: newPaid,
		Status:     ClassifyPaymentStatus(newPaid, l.AmountDue),
	}, nil
}

// Delete removes the payment at index. The new paid total is clamped at
// zero to defend against drift in previously stored totals.
func (l Ledger) Delete(index int) (LedgerResult, error) {
	if index < 0 || index >= len(l.Payments) {
		return LedgerResult{}, shared.NewDomainError("PAYMENT_NOT_FOUND",
			fmt.Sprintf("No payment at index %d", index))
	}

	deleted := l.Payments[index].Amount
	updated := make(Payments, 0, len(l.Payments)-1)
	updated = append(updated, l.Payments[:index]...)
	updated = append(updated, l.Payments[index+1:]...)

	newPaid := l.AmountPaid.Sub(deleted)
	if newPaid.IsNegative() {
		newPaid = decimal.Zero
	}
	return LedgerResult{
		Payments:   updated,
		AmountPaid: newPaid,
		Status:     ClassifyPaymentStatus(newPaid, l.AmountDue),
	}, nil
}

// ledger returns the pure snapshot of this invoice's billing state
func (inv *Invoice) ledger() Ledger {
	return Ledger{
		AmountDue:  inv.AmountDue,
		AmountPaid: inv.AmountPaid,
		Payments:   inv.Payments,
	}
}

// applyLedgerResult writes a ledger result back onto the aggregate
func (inv *Invoice) applyLedgerResult(result LedgerResult) {
	wasPaid := inv.PaymentStatus == PaymentStatusPaid
	inv.Payments = result.Payments
	inv.AmountPaid = result.AmountPaid
	inv.PaymentStatus = result.Status
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	if !wasPaid && result.Status == PaymentStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}
}

// RecordPayment appends a payment to the invoice's ledger
func (inv *Invoice) RecordPayment(amount decimal.Decimal, date valueobject.CivilDate, note string) error {
	result, err := inv.ledger().Record(amount, date, note)
	if err != nil {
		return err
	}
	inv.applyLedgerResult(result)
	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, amount))
	return nil
}

// EditPayment replaces the payment at index in the invoice's ledger
func (inv *Invoice) EditPayment(index int, amount decimal.Decimal, date valueobject.CivilDate, note string) error {
	result, err := inv.ledger().Edit(index, amount, date, note)
	if err != nil {
		return err
	}
	inv.applyLedgerResult(result)
	inv.AddDomainEvent(NewPaymentAdjustedEvent(inv, index))
	return nil
}

// DeletePayment removes the payment at index from the invoice's ledger
func (inv *Invoice) DeletePayment(index int) error {
	result, err := inv.ledger().Delete(index)
	if err != nil {
		return err
	}
	inv.applyLedgerResult(result)
	inv.AddDomainEvent(NewPaymentRemovedEvent(inv, index))
	return nil
}
