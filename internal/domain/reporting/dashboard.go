package reporting

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// Window bounds for monthly revenue bucketing, in calendar months.
const (
	MinWindowMonths = 2
	MaxWindowMonths = 24
)

// hundred is the percentage scale factor
var hundred = decimal.New(100, 0)

// DashboardSummary is the KPI read model for the dashboard header
type DashboardSummary struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalPending decimal.Decimal `json:"totalPending"`
	InvoiceCount int             `json:"invoiceCount"`
	PaidCount    int             `json:"paidCount"`
	RevenueTrend decimal.Decimal `json:"revenueTrend"`
	PendingTrend decimal.Decimal `json:"pendingTrend"`
}

// MonthBucket is one month's revenue in the dashboard time series
type MonthBucket struct {
	Label   string          `json:"label"` // Short month name, e.g. "Jan"
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ActivityKind distinguishes recent-activity entries
type ActivityKind string

const (
	ActivityInvoicePaid ActivityKind = "invoice_paid"
	ActivityInvoiceSent ActivityKind = "invoice_sent"
)

// Activity is one entry in the recent-activity feed. It reflects the
// invoice's current status at its last update, not individual payment
// events.
type Activity struct {
	InvoiceID    uuid.UUID       `json:"invoiceId"`
	Number       string          `json:"number"`
	ClientDetail string          `json:"clientDetail"`
	Amount       decimal.Decimal `json:"amount"`
	Kind         ActivityKind    `json:"kind"`
	OccurredAt   time.Time       `json:"occurredAt"`
}

// RecentActivityLimit is how many entries the activity feed shows
const RecentActivityLimit = 5

// billable reports whether an invoice participates in financial rollups.
// Draft invoices are unissued and excluded from every total.
func billable(inv *invoicing.Invoice) bool {
	return !inv.IsDraft()
}

// Summarize reduces an invoice snapshot into the dashboard KPIs. It is a
// pure function: it reads the snapshot it is handed and mutates nothing.
func Summarize(invoices []*invoicing.Invoice, now time.Time) DashboardSummary {
	summary := DashboardSummary{
		TotalRevenue: decimal.Zero,
		TotalPending: decimal.Zero,
	}

	currentRevenue, previousRevenue := decimal.Zero, decimal.Zero
	currentPending, previousPending := decimal.Zero, decimal.Zero
	currentYear, currentMonth, _ := now.Date()
	prev := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
	previousYear, previousMonth := prev.Year(), prev.Month()

	for _, inv := range invoices {
		if !billable(inv) {
			continue
		}

		pending := inv.AmountDue.Sub(inv.AmountPaid)
		summary.TotalRevenue = summary.TotalRevenue.Add(inv.AmountPaid)
		summary.TotalPending = summary.TotalPending.Add(pending)
		summary.InvoiceCount++
		if inv.IsPaid() {
			summary.PaidCount++
		}

		// The trend compares exactly the current and previous calendar
		// months by issue date, independent of any bucket window.
		switch {
		case inv.IssueDate.SameMonth(currentYear, currentMonth):
			currentRevenue = currentRevenue.Add(inv.AmountPaid)
			currentPending = currentPending.Add(pending)
		case inv.IssueDate.SameMonth(previousYear, previousMonth):
			previousRevenue = previousRevenue.Add(inv.AmountPaid)
			previousPending = previousPending.Add(pending)
		}
	}

	summary.RevenueTrend = CalcTrend(currentRevenue, previousRevenue)
	summary.PendingTrend = CalcTrend(currentPending, previousPending)

	return summary
}

// CalcTrend returns the period-over-period change as a percentage. A zero
// previous period reports 100 when anything was earned and 0 otherwise,
// rather than dividing by zero.
func CalcTrend(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// MonthlyRevenue buckets non-draft invoices' paid amounts by issue month,
// walking backward from the month of now. The window is clamped to
// [MinWindowMonths, MaxWindowMonths]; invoices issued outside the window
// are dropped silently.
func MonthlyRevenue(invoices []*invoicing.Invoice, months int, now time.Time) []MonthBucket {
	if months < MinWindowMonths {
		months = MinWindowMonths
	}
	if months > MaxWindowMonths {
		months = MaxWindowMonths
	}

	buckets := make([]MonthBucket, months)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < months; i++ {
		m := anchor.AddDate(0, i-months+1, 0)
		buckets[i] = MonthBucket{
			Label:   m.Format("Jan"),
			Year:    m.Year(),
			Month:   m.Month(),
			Revenue: decimal.Zero,
		}
	}

	for _, inv := range invoices {
		if !billable(inv) {
			continue
		}
		for i := range buckets {
			if inv.IssueDate.SameMonth(buckets[i].Year, buckets[i].Month) {
				buckets[i].Revenue = buckets[i].Revenue.Add(inv.AmountPaid)
				break
			}
		}
	}

	return buckets
}

// RecentActivity projects the most recently updated invoices into the
// activity feed, newest first. All invoices qualify, drafts included;
// the Draft exclusion applies to financial totals only.
func RecentActivity(invoices []*invoicing.Invoice, limit int) []Activity {
	if limit <= 0 {
		limit = RecentActivityLimit
	}

	sorted := make([]*invoicing.Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	activities := make([]Activity, 0, len(sorted))
	for _, inv := range sorted {
		kind := ActivityInvoiceSent
		if inv.IsPaid() {
			kind = ActivityInvoicePaid
		}
		activities = append(activities, Activity{
			InvoiceID:    inv.ID,
			Number:       inv.Number,
			ClientDetail: inv.ClientDetail,
			Amount:       inv.AmountDue,
			Kind:         kind,
			OccurredAt:   inv.UpdatedAt,
		})
	}

	return activities
}
