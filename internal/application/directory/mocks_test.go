package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Save(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*directory.Client, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]*directory.Client, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByStatus(ctx context.Context, ownerID uuid.UUID, status directory.ClientStatus) ([]*directory.Client, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Client), args.Error(1)
}

func (m *MockClientRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Save(ctx context.Context, project *directory.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveWithLock(ctx context.Context, project *directory.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*directory.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]*directory.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByClient(ctx context.Context, ownerID, clientID uuid.UUID, clientName string) ([]*directory.Project, error) {
	args := m.Called(ctx, ownerID, clientID, clientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByStatus(ctx context.Context, ownerID uuid.UUID, status directory.ProjectStatus) ([]*directory.Project, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
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
