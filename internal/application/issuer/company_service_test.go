package issuer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/issuer"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Save(ctx context.Context, profile *issuer.CompanyProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockCompanyRepository) SaveWithLock(ctx context.Context, profile *issuer.CompanyProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*issuer.CompanyProfile, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuer.CompanyProfile), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]*issuer.CompanyProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*issuer.CompanyProfile), args.Error(1)
}

func (m *MockCompanyRepository) FindDefault(ctx context.Context, ownerID uuid.UUID) (*issuer.CompanyProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuer.CompanyProfile), args.Error(1)
}

func (m *MockCompanyRepository) SetDefault(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
	published []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.published = append(m.published, events...)
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventPublisher) eventTypes() []string {
	types := make([]string, len(m.published))
	for i, e := range m.published {
		types[i] = e.EventType()
	}
	return types
}

func newProfile(t *testing.T, ownerID uuid.UUID, name string) *issuer.CompanyProfile {
	t.Helper()
	p, err := issuer.NewCompanyProfile(ownerID, issuer.ProfileInput{CompanyName: name})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("first profile becomes the default", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		repo.On("Save", ctx, mock.AnythingOfType("*issuer.CompanyProfile")).Return(nil)
		repo.On("FindDefault", ctx, ownerID).Return(nil, nil)
		repo.On("SetDefault", ctx, ownerID, mock.AnythingOfType("uuid.UUID")).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ownerID, CompanyRequest{CompanyName: "Studio North LLC"})

		require.NoError(t, err)
		assert.Equal(t, "Studio North LLC", resp.CompanyName)
		assert.True(t, resp.IsDefault)
		assert.Contains(t, bus.eventTypes(), issuer.EventDefaultChanged)
		repo.AssertExpectations(t)
	})

	t.Run("second profile does not steal the default", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		existing := newProfile(t, ownerID, "Studio North LLC")
		existing.IsDefault = true

		repo.On("Save", ctx, mock.AnythingOfType("*issuer.CompanyProfile")).Return(nil)
		repo.On("FindDefault", ctx, ownerID).Return(existing, nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ownerID, CompanyRequest{CompanyName: "Side Gig Co"})

		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("setDefault flag swaps the slot on creation", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		existing := newProfile(t, ownerID, "Studio North LLC")
		existing.IsDefault = true

		repo.On("Save", ctx, mock.AnythingOfType("*issuer.CompanyProfile")).Return(nil)
		repo.On("FindDefault", ctx, ownerID).Return(existing, nil)
		repo.On("SetDefault", ctx, ownerID, mock.AnythingOfType("uuid.UUID")).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ownerID, CompanyRequest{CompanyName: "Side Gig Co", SetDefault: true})

		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)

		_, err := svc.Create(ctx, ownerID, CompanyRequest{CompanyName: "  "})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMPANY_NAME", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCompanyService_SetDefault(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("moves the slot through the repository", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		profile := newProfile(t, ownerID, "Side Gig Co")

		repo.On("FindByID", ctx, ownerID, profile.ID).Return(profile, nil)
		repo.On("SetDefault", ctx, ownerID, profile.ID).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.SetDefault(ctx, ownerID, profile.ID)

		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Contains(t, bus.eventTypes(), issuer.EventDefaultChanged)
	})

	t.Run("already default is a no-op", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)

		profile := newProfile(t, ownerID, "Studio North LLC")
		profile.IsDefault = true

		repo.On("FindByID", ctx, ownerID, profile.ID).Return(profile, nil)

		_, err := svc.SetDefault(ctx, ownerID, profile.ID)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown profile", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)
		id := uuid.New()

		repo.On("FindByID", ctx, ownerID, id).Return(nil, nil)

		_, err := svc.SetDefault(ctx, ownerID, id)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("keeps the default flag unless asked to move it", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		profile := newProfile(t, ownerID, "Studio North LLC")

		repo.On("FindByID", ctx, ownerID, profile.ID).Return(profile, nil)
		repo.On("SaveWithLock", ctx, profile).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Update(ctx, ownerID, profile.ID, CompanyRequest{
			CompanyName: "Studio North, LLC",
			Email:       "billing@studionorth.example",
		})

		require.NoError(t, err)
		assert.Equal(t, "Studio North, LLC", resp.CompanyName)
		assert.False(t, resp.IsDefault)
		repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCompanyService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("deleting the default re-elects the oldest remaining profile", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		current := newProfile(t, ownerID, "Studio North LLC")
		current.IsDefault = true
		survivor := newProfile(t, ownerID, "Side Gig Co")

		repo.On("FindByID", ctx, ownerID, current.ID).Return(current, nil)
		repo.On("Delete", ctx, ownerID, current.ID).Return(nil)
		repo.On("FindAll", ctx, ownerID).Return([]*issuer.CompanyProfile{survivor}, nil)
		repo.On("SetDefault", ctx, ownerID, survivor.ID).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		err := svc.Delete(ctx, ownerID, current.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("deleting a non-default profile leaves the slot alone", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		bus := new(MockEventPublisher)
		svc := NewCompanyService(repo, bus)

		profile := newProfile(t, ownerID, "Side Gig Co")

		repo.On("FindByID", ctx, ownerID, profile.ID).Return(profile, nil)
		repo.On("Delete", ctx, ownerID, profile.ID).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		err := svc.Delete(ctx, ownerID, profile.ID)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
	})
}
