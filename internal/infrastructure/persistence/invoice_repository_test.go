package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_FindByIDForOwner(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		ownerID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "owner_id", "version", "number", "client_detail",
			"items", "payments", "amount_due", "amount_paid",
			"payment_status", "status",
		}).AddRow(
			invoiceID, ownerID, 3, "INV-#2024-0842", "Acme Corp",
			[]byte(`[{"description":"Design","qty":"10","rate":"120"}]`),
			[]byte(`[{"amount":"600","date":"2024-07-01"}]`),
			decimal.RequireFromString("1200"), decimal.RequireFromString("600"),
			"Partial", "Registered",
		)

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, invoiceID, 1).
			WillReturnRows(rows)

		inv, err := repo.FindByIDForOwner(context.Background(), ownerID, invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, inv)
		assert.Equal(t, invoiceID, inv.ID)
		assert.Equal(t, ownerID, inv.OwnerID)
		assert.Equal(t, 3, inv.Version)
		assert.Equal(t, "INV-#2024-0842", inv.Number)
		assert.Len(t, inv.Items, 1)
		assert.Len(t, inv.Payments, 1)
		assert.Equal(t, invoicing.PaymentStatusPartial, inv.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error when missing", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices"`).
			WillReturnError(gorm.ErrRecordNotFound)

		inv, err := repo.FindByIDForOwner(context.Background(), uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.Nil(t, inv)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_ExistsByNumber(t *testing.T) {
	repo, mock, mockDB := newMockInvoiceRepository(t)
	defer mockDB.Close()

	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE owner_id = \$1 AND number = \$2`).
		WithArgs(ownerID, "INV-#2024-0842").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByNumber(context.Background(), ownerID, "INV-#2024-0842")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv := newStoredInvoice(t)

		mock.ExpectExec(`UPDATE "invoices" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), inv)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when no row matches the expected version", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv := newStoredInvoice(t)

		mock.ExpectExec(`UPDATE "invoices" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), inv)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// newStoredInvoice builds a registered invoice that looks like it came out
// of the database with a bumped version.
func newStoredInvoice(t *testing.T) *invoicing.Invoice {
	t.Helper()

	inv, err := invoicing.NewInvoice(uuid.New(), invoicing.NewInvoiceInput{
		Number:       "INV-#2024-0001",
		ProjectName:  "Website redesign",
		ClientDetail: "Acme Corp",
		IssueDate:    valueobject.NewCivilDate(2024, 1, 15),
		Status:       invoicing.InvoiceStatusRegistered,
		Items: invoicing.LineItems{
			{Description: "Design", Qty: decimal.NewFromInt(10), Rate: decimal.NewFromInt(120)},
		},
	})
	require.NoError(t, err)
	inv.Version = 2
	return inv
}
