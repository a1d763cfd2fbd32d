package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T, ownerID uuid.UUID, name string, clientID *uuid.UUID, clientName string) *directory.Project {
	t.Helper()
	project, err := directory.NewProject(ownerID, name, clientID, clientName)
	require.NoError(t, err)
	project.ClearDomainEvents()
	return project
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("snapshots the client name from the linked client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		projectRepo := new(MockProjectRepository)
		bus := new(MockEventPublisher)
		svc := NewProjectService(projectRepo, clientRepo, bus)

		client := newTestClient(t, ownerID, "Acme Corp")
		clientRepo.On("FindByID", ctx, ownerID, client.ID).Return(client, nil)
		projectRepo.On("Save", ctx, mock.AnythingOfType("*directory.Project")).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ownerID, CreateProjectRequest{
			Name:       "Website Redesign",
			ClientID:   &client.ID,
			ClientName: "stale name that must be ignored",
		})

		require.NoError(t, err)
		assert.Equal(t, "Website Redesign", resp.Name)
		require.NotNil(t, resp.ClientID)
		assert.Equal(t, client.ID, *resp.ClientID)
		assert.Equal(t, "Acme Corp", resp.ClientName)
		assert.Equal(t, directory.ProjectStatusActive, resp.Status)
	})

	t.Run("accepts a bare client name without a link", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		bus := new(MockEventPublisher)
		svc := NewProjectService(projectRepo, new(MockClientRepository), bus)

		projectRepo.On("Save", ctx, mock.AnythingOfType("*directory.Project")).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, ownerID, CreateProjectRequest{
			Name:       "Logo Refresh",
			ClientName: "Walk-in Client",
		})

		require.NoError(t, err)
		assert.Nil(t, resp.ClientID)
		assert.Equal(t, "Walk-in Client", resp.ClientName)
	})

	t.Run("unknown client id", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		projectRepo := new(MockProjectRepository)
		svc := NewProjectService(projectRepo, clientRepo, nil)
		clientID := uuid.New()

		clientRepo.On("FindByID", ctx, ownerID, clientID).Return(nil, nil)

		_, err := svc.Create(ctx, ownerID, CreateProjectRequest{
			Name:     "Website Redesign",
			ClientID: &clientID,
		})

		assertDomainErrorCode(t, err, "NOT_FOUND")
		projectRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProjectService_ListForClient(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("joins by id and by name snapshot", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		projectRepo := new(MockProjectRepository)
		svc := NewProjectService(projectRepo, clientRepo, nil)

		client := newTestClient(t, ownerID, "Acme Corp")
		linked := newTestProject(t, ownerID, "Website Redesign", &client.ID, "Acme Corp")
		legacy := newTestProject(t, ownerID, "Print Ads", nil, "Acme Corp")

		clientRepo.On("FindByID", ctx, ownerID, client.ID).Return(client, nil)
		projectRepo.On("FindByClient", ctx, ownerID, client.ID, "Acme Corp").
			Return([]*directory.Project{linked, legacy}, nil)

		responses, err := svc.ListForClient(ctx, ownerID, client.ID)

		require.NoError(t, err)
		require.Len(t, responses, 2)
		assert.Equal(t, "Website Redesign", responses[0].Name)
		assert.Equal(t, "Print Ads", responses[1].Name)
	})

	t.Run("unknown client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		svc := NewProjectService(new(MockProjectRepository), clientRepo, nil)
		clientID := uuid.New()

		clientRepo.On("FindByID", ctx, ownerID, clientID).Return(nil, nil)

		_, err := svc.ListForClient(ctx, ownerID, clientID)

		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}

func TestProjectService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("moves a project to completed", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		bus := new(MockEventPublisher)
		svc := NewProjectService(projectRepo, new(MockClientRepository), bus)

		project := newTestProject(t, ownerID, "Website Redesign", nil, "Acme Corp")

		projectRepo.On("FindByID", ctx, ownerID, project.ID).Return(project, nil)
		projectRepo.On("SaveWithLock", ctx, project).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.ChangeStatus(ctx, ownerID, project.ID, directory.ProjectStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, directory.ProjectStatusCompleted, resp.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		projectRepo := new(MockProjectRepository)
		svc := NewProjectService(projectRepo, new(MockClientRepository), nil)

		project := newTestProject(t, ownerID, "Website Redesign", nil, "Acme Corp")
		projectRepo.On("FindByID", ctx, ownerID, project.ID).Return(project, nil)

		_, err := svc.ChangeStatus(ctx, ownerID, project.ID, directory.ProjectStatus("Cancelled"))

		assertDomainErrorCode(t, err, "INVALID_STATUS")
		projectRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	projectRepo := new(MockProjectRepository)
	bus := new(MockEventPublisher)
	svc := NewProjectService(projectRepo, new(MockClientRepository), bus)

	project := newTestProject(t, ownerID, "Website Redesign", nil, "Acme Corp")

	projectRepo.On("FindByID", ctx, ownerID, project.ID).Return(project, nil)
	projectRepo.On("Delete", ctx, ownerID, project.ID).Return(nil)
	bus.On("Publish", ctx, mock.Anything).Return(nil)

	err := svc.Delete(ctx, ownerID, project.ID)

	require.NoError(t, err)
	require.Len(t, bus.published, 1)
	assert.Equal(t, directory.EventProjectDeleted, bus.published[0].EventType())
}
