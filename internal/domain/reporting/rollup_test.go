package reporting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollupClient(t *testing.T) {
	ownerID := uuid.New()
	client, err := directory.NewClient(ownerID, "Acme Corp")
	require.NoError(t, err)

	invoices := []*invoicing.Invoice{
		// Linked by id: counts even though the display name differs.
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-05", amountDue: "500", amountPaid: "500",
			status: invoicing.InvoiceStatusRegistered, client: "Acme (old name)", clientID: &client.ID, project: "Redesign"}),
		// Legacy row: joins by exact name match.
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-10", amountDue: "300", amountPaid: "100",
			status: invoicing.InvoiceStatusRegistered, client: "Acme Corp", project: "Redesign"}),
		buildInvoice(t, invoiceSpec{issueDate: "2024-02-01", amountDue: "200", amountPaid: "0",
			status: invoicing.InvoiceStatusRegistered, client: "Acme Corp", project: "Branding"}),
		// Different client: excluded.
		buildInvoice(t, invoiceSpec{issueDate: "2024-02-02", amountDue: "900", amountPaid: "900",
			status: invoicing.InvoiceStatusRegistered, client: "Globex", project: "Other"}),
		// Draft for the same client: excluded from every rollup.
		buildInvoice(t, invoiceSpec{issueDate: "2024-02-03", amountDue: "600", amountPaid: "0",
			status: invoicing.InvoiceStatusDraft, client: "Acme Corp", project: "Redesign"}),
	}

	rollup := RollupClient(invoices, client)

	assert.True(t, rollup.TotalBilled.Equal(dec("1000")), "got %s", rollup.TotalBilled)
	assert.True(t, rollup.TotalPaid.Equal(dec("600")))
	assert.Equal(t, 3, rollup.InvoiceCount)
	assert.Equal(t, 2, rollup.ProjectCount, "distinct non-empty project names")
}

func TestRollupClient_CaseSensitiveNameJoin(t *testing.T) {
	client, err := directory.NewClient(uuid.New(), "Acme Corp")
	require.NoError(t, err)

	invoices := []*invoicing.Invoice{
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-05", amountDue: "500", amountPaid: "0",
			status: invoicing.InvoiceStatusRegistered, client: "acme corp"}),
	}

	rollup := RollupClient(invoices, client)
	assert.Equal(t, 0, rollup.InvoiceCount, "legacy join is a case-sensitive exact match")
}

func TestRollupClient_IDLinkBeatsNameMismatch(t *testing.T) {
	client, err := directory.NewClient(uuid.New(), "Acme Corp")
	require.NoError(t, err)
	otherID := uuid.New()

	invoices := []*invoicing.Invoice{
		// Linked to a different client but carrying this client's name:
		// the id link wins and the invoice is excluded.
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-05", amountDue: "500", amountPaid: "0",
			status: invoicing.InvoiceStatusRegistered, client: "Acme Corp", clientID: &otherID}),
	}

	rollup := RollupClient(invoices, client)
	assert.Equal(t, 0, rollup.InvoiceCount)
}

func TestRollupClients(t *testing.T) {
	ownerID := uuid.New()
	acme, err := directory.NewClient(ownerID, "Acme Corp")
	require.NoError(t, err)
	globex, err := directory.NewClient(ownerID, "Globex")
	require.NoError(t, err)

	invoices := []*invoicing.Invoice{
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-05", amountDue: "100", amountPaid: "100",
			status: invoicing.InvoiceStatusRegistered, client: "Acme Corp"}),
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-06", amountDue: "250", amountPaid: "0",
			status: invoicing.InvoiceStatusRegistered, client: "Globex"}),
	}

	rollups := RollupClients(invoices, []*directory.Client{acme, globex})
	require.Len(t, rollups, 2)
	assert.True(t, rollups[0].TotalBilled.Equal(dec("100")))
	assert.True(t, rollups[1].TotalBilled.Equal(dec("250")))
}

func TestRollupProject(t *testing.T) {
	project, err := directory.NewProject(uuid.New(), "Redesign", nil, "Acme Corp")
	require.NoError(t, err)

	invoices := []*invoicing.Invoice{
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-05", amountDue: "500", amountPaid: "200",
			status: invoicing.InvoiceStatusRegistered, client: "Acme Corp", project: "Redesign"}),
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-06", amountDue: "300", amountPaid: "300",
			status: invoicing.InvoiceStatusRegistered, client: "Acme Corp", project: "Branding"}),
		buildInvoice(t, invoiceSpec{issueDate: "2024-01-07", amountDue: "400", amountPaid: "0",
			status: invoicing.InvoiceStatusDraft, client: "Acme Corp", project: "Redesign"}),
	}

	rollup := RollupProject(invoices, project)

	assert.True(t, rollup.TotalBilled.Equal(dec("500")))
	assert.True(t, rollup.TotalPaid.Equal(dec("200")))
	assert.Equal(t, 1, rollup.InvoiceCount)
}
