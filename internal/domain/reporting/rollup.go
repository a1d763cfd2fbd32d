package reporting

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// ClientRollup is the per-client billing summary shown on the client list
type ClientRollup struct {
	ClientID     uuid.UUID       `json:"clientId"`
	ClientName   string          `json:"clientName"`
	TotalBilled  decimal.Decimal `json:"totalBilled"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	InvoiceCount int             `json:"invoiceCount"`
	ProjectCount int             `json:"projectCount"`
}

// ProjectRollup is the per-project billing summary
type ProjectRollup struct {
	ProjectID    uuid.UUID       `json:"projectId"`
	ProjectName  string          `json:"projectName"`
	TotalBilled  decimal.Decimal `json:"totalBilled"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	InvoiceCount int             `json:"invoiceCount"`
}

// invoiceBelongsToClient matches an invoice to a client, preferring the
// stable id link. Invoices written before client ids existed carry only
// the clientDetail name snapshot; those fall back to a case-sensitive
// exact name match, so renaming a client orphans its legacy invoices
// going forward without relabeling the ones already issued.
func invoiceBelongsToClient(inv *invoicing.Invoice, client *directory.Client) bool {
	if inv.ClientID != nil {
		return *inv.ClientID == client.ID
	}
	return inv.ClientDetail != "" && inv.ClientDetail == client.Name
}

// RollupClient reduces the non-draft invoices matched to a client into its
// billing summary. projectCount is the number of distinct non-empty
// project names across the matched invoices.
func RollupClient(invoices []*invoicing.Invoice, client *directory.Client) ClientRollup {
	rollup := ClientRollup{
		ClientID:    client.ID,
		ClientName:  client.Name,
		TotalBilled: decimal.Zero,
		TotalPaid:   decimal.Zero,
	}

	projects := make(map[string]struct{})
	for _, inv := range invoices {
		if !billable(inv) || !invoiceBelongsToClient(inv, client) {
			continue
		}

		rollup.TotalBilled = rollup.TotalBilled.Add(inv.AmountDue)
		rollup.TotalPaid = rollup.TotalPaid.Add(inv.AmountPaid)
		rollup.InvoiceCount++
		if inv.ProjectName != "" {
			projects[inv.ProjectName] = struct{}{}
		}
	}
	rollup.ProjectCount = len(projects)

	return rollup
}

// RollupClients computes rollups for a set of clients over one snapshot
func RollupClients(invoices []*invoicing.Invoice, clients []*directory.Client) []ClientRollup {
	rollups := make([]ClientRollup, 0, len(clients))
	for _, client := range clients {
		rollups = append(rollups, RollupClient(invoices, client))
	}
	return rollups
}

// RollupProject reduces the non-draft invoices billed under a project's
// name into its billing summary. Invoices join projects by name snapshot
// only; the invoice record never carries a project id.
func RollupProject(invoices []*invoicing.Invoice, project *directory.Project) ProjectRollup {
	rollup := ProjectRollup{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		TotalBilled: decimal.Zero,
		TotalPaid:   decimal.Zero,
	}

	for _, inv := range invoices {
		if !billable(inv) || inv.ProjectName != project.Name {
			continue
		}
		rollup.TotalBilled = rollup.TotalBilled.Add(inv.AmountDue)
		rollup.TotalPaid = rollup.TotalPaid.Add(inv.AmountPaid)
		rollup.InvoiceCount++
	}

	return rollup
}
