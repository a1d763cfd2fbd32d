package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/issuer"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustCivilDate(t *testing.T, s string) valueobject.CivilDate {
	t.Helper()
	d, err := valueobject.ParseCivilDate(s)
	require.NoError(t, err)
	return d
}

func newTestProfile(t *testing.T, ownerID uuid.UUID, name string) *issuer.CompanyProfile {
	t.Helper()
	profile, err := issuer.NewCompanyProfile(ownerID, issuer.ProfileInput{CompanyName: name})
	require.NoError(t, err)
	return profile
}

func validCreateRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		ProjectName:  "Website Redesign",
		ClientDetail: "Acme Corp",
		IssueDate:    "2024-01-03",
		Items: []LineItemRequest{
			{Description: "Design work", Qty: dec("1"), Rate: dec("500")},
		},
		Status: "Registered",
	}
}

func TestInvoiceService_Create(t *testing.T) {
	ownerID := uuid.New()
	ctx := context.Background()

	t.Run("generates a number and freezes the default issuer", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		companyRepo := new(MockCompanyRepository)
		profile := newTestProfile(t, ownerID, "Studio North LLC")

		companyRepo.On("FindDefault", ctx, ownerID).Return(profile, nil)
		invoiceRepo.On("ExistsByNumber", ctx, ownerID, mock.AnythingOfType("string")).Return(false, nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		svc := NewInvoiceService(invoiceRepo, companyRepo, nil,
			WithClock(func() time.Time { return time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local) }))

		resp, err := svc.Create(ctx, ownerID, validCreateRequest())
		require.NoError(t, err)

		assert.Regexp(t, `^INV-#2024-\d{4}$`, resp.Number)
		assert.Equal(t, "Studio North LLC", resp.Issuer.CompanyName)
		require.NotNil(t, resp.CompanyID)
		assert.Equal(t, profile.ID, *resp.CompanyID)
		assert.True(t, resp.AmountDue.Equal(dec("500")))
		assert.Equal(t, invoicing.PaymentStatusPending, resp.PaymentStatus)
		assert.Equal(t, "2024-01-10", resp.DueDate.String(), "due date defaults to issue + 7 days")
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("retries generated numbers on collision", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		companyRepo := new(MockCompanyRepository)

		companyRepo.On("FindDefault", ctx, ownerID).Return(nil, nil)
		invoiceRepo.On("ExistsByNumber", ctx, ownerID, mock.AnythingOfType("string")).Return(true, nil).Once()
		invoiceRepo.On("ExistsByNumber", ctx, ownerID, mock.AnythingOfType("string")).Return(false, nil).Once()
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		svc := NewInvoiceService(invoiceRepo, companyRepo, nil)

		_, err := svc.Create(ctx, ownerID, validCreateRequest())
		require.NoError(t, err)
		invoiceRepo.AssertNumberOfCalls(t, "ExistsByNumber", 2)
	})

	t.Run("rejects an explicit duplicate number", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		companyRepo := new(MockCompanyRepository)

		invoiceRepo.On("ExistsByNumber", ctx, ownerID, "INV-#2024-0001").Return(true, nil)

		svc := NewInvoiceService(invoiceRepo, companyRepo, nil)

		req := validCreateRequest()
		req.Number = "INV-#2024-0001"
		_, err := svc.Create(ctx, ownerID, req)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_NUMBER", domainErr.Code)
	})

	t.Run("owner with no profiles gets an empty issuer", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		companyRepo := new(MockCompanyRepository)

		companyRepo.On("FindDefault", ctx, ownerID).Return(nil, nil)
		invoiceRepo.On("ExistsByNumber", ctx, ownerID, mock.AnythingOfType("string")).Return(false, nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		svc := NewInvoiceService(invoiceRepo, companyRepo, nil)

		resp, err := svc.Create(ctx, ownerID, validCreateRequest())
		require.NoError(t, err)
		assert.Empty(t, resp.Issuer.CompanyName)
		assert.Nil(t, resp.CompanyID)
	})

	t.Run("bad issue date", func(t *testing.T) {
		svc := NewInvoiceService(new(MockInvoiceRepository), new(MockCompanyRepository), nil)

		req := validCreateRequest()
		req.IssueDate = "01/03/2024"
		_, err := svc.Create(ctx, ownerID, req)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATE", domainErr.Code)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	ownerID := uuid.New()
	ctx := context.Background()

	makeInvoice := func(t *testing.T) *invoicing.Invoice {
		inv, err := invoicing.NewInvoice(ownerID, invoicing.NewInvoiceInput{
			Number:       "INV-#2024-0100",
			ProjectName:  "Website Redesign",
			ClientDetail: "Acme Corp",
			IssueDate:    mustCivilDate(t, "2024-01-03"),
			Items: invoicing.LineItems{
				{Description: "Design work", Qty: dec("1"), Rate: dec("500")},
			},
			Status: invoicing.InvoiceStatusRegistered,
		})
		require.NoError(t, err)
		inv.ClearDomainEvents()
		return inv
	}

	t.Run("keeps the frozen issuer on plain edits", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		companyRepo := new(MockCompanyRepository)
		inv := makeInvoice(t)
		inv.Issuer = invoicing.IssuerSnapshot{CompanyName: "Studio North LLC"}

		invoiceRepo.On("FindByIDForOwner", ctx, ownerID, inv.ID).Return(inv, nil)
		invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

		svc := NewInvoiceService(invoiceRepo, companyRepo, nil)

		resp, err := svc.Update(ctx, ownerID, inv.ID, UpdateInvoiceRequest{
			ProjectName:  "Website Redesign v2",
			ClientDetail: "Acme Corp",
			IssueDate:    "2024-01-03",
			Items: []LineItemRequest{
				{Description: "Design work", Qty: dec("1"), Rate: dec("800")},
			},
			Status: "Registered",
		})
		require.NoError(t, err)
		assert.Equal(t, "Studio North LLC", resp.Issuer.CompanyName)
		assert.True(t, resp.AmountDue.Equal(dec("800")))
		companyRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("surfaces concurrency conflicts", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		inv := makeInvoice(t)

		invoiceRepo.On("FindByIDForOwner", ctx, ownerID, inv.ID).Return(inv, nil)
		invoiceRepo.On("SaveWithLock", ctx, inv).Return(shared.ErrConcurrencyConflict)

		svc := NewInvoiceService(invoiceRepo, new(MockCompanyRepository), nil)

		_, err := svc.Update(ctx, ownerID, inv.ID, UpdateInvoiceRequest{
			ProjectName:  "Website Redesign",
			ClientDetail: "Acme Corp",
			IssueDate:    "2024-01-03",
			Status:       "Registered",
		})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("not found", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		missing := uuid.New()
		invoiceRepo.On("FindByIDForOwner", ctx, ownerID, missing).Return(nil, nil)

		svc := NewInvoiceService(invoiceRepo, new(MockCompanyRepository), nil)

		_, err := svc.Update(ctx, ownerID, missing, UpdateInvoiceRequest{
			ProjectName: "P", IssueDate: "2024-01-03", Status: "Draft",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestInvoiceService_List(t *testing.T) {
	ownerID := uuid.New()
	ctx := context.Background()

	t.Run("invalid status filter", func(t *testing.T) {
		svc := NewInvoiceService(new(MockInvoiceRepository), new(MockCompanyRepository), nil)
		_, err := svc.List(ctx, ownerID, ListInvoicesRequest{Status: "Archived"})
		require.Error(t, err)
	})

	t.Run("passes filters through", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		invoiceRepo.On("FindAllForOwner", ctx, ownerID, mock.MatchedBy(func(f invoicing.InvoiceFilter) bool {
			return f.Status != nil && *f.Status == invoicing.InvoiceStatusRegistered && f.Search == "acme"
		})).Return([]invoicing.Invoice{}, nil)

		svc := NewInvoiceService(invoiceRepo, new(MockCompanyRepository), nil)
		_, err := svc.List(ctx, ownerID, ListInvoicesRequest{Status: "Registered", Search: "acme"})
		require.NoError(t, err)
		invoiceRepo.AssertExpectations(t)
	})
}
