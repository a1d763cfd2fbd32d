package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockCompanyRepository(t *testing.T) (*GormCompanyRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormCompanyRepository(gormDB), mock, mockDB
}

func TestGormCompanyRepository_SetDefault(t *testing.T) {
	t.Run("clears old default and sets new one in a single transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		profileID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "company_profiles" SET .* WHERE owner_id = \$\d+ AND is_default = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "company_profiles" SET .* WHERE owner_id = \$\d+ AND id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SetDefault(context.Background(), ownerID, profileID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the target profile does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "company_profiles" SET .* WHERE owner_id = \$\d+ AND is_default = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "company_profiles" SET .* WHERE owner_id = \$\d+ AND id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SetDefault(context.Background(), uuid.New(), uuid.New())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_FindDefault(t *testing.T) {
	t.Run("returns nil without error when owner has no default", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "company_profiles"`).
			WillReturnError(gorm.ErrRecordNotFound)

		profile, err := repo.FindDefault(context.Background(), uuid.New())

		assert.NoError(t, err)
		assert.Nil(t, profile)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finds the flagged profile", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		profileID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "owner_id", "version", "company_name", "is_default"}).
			AddRow(profileID, ownerID, 1, "Maria Design Studio", true)

		mock.ExpectQuery(`SELECT \* FROM "company_profiles" WHERE owner_id = \$1 AND is_default = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, true, 1).
			WillReturnRows(rows)

		profile, err := repo.FindDefault(context.Background(), ownerID)

		assert.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, profileID, profile.ID)
		assert.True(t, profile.IsDefault)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
