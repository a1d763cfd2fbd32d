package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// ProjectService provides application-level project operations
type ProjectService struct {
	projectRepo directory.ProjectRepository
	clientRepo  directory.ClientRepository
	eventBus    shared.EventPublisher
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo directory.ProjectRepository,
	clientRepo directory.ClientRepository,
	eventBus shared.EventPublisher,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		eventBus:    eventBus,
	}
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID         uuid.UUID               `json:"id"`
	Name       string                  `json:"name"`
	ClientID   *uuid.UUID              `json:"clientId,omitempty"`
	ClientName string                  `json:"clientName,omitempty"`
	Status     directory.ProjectStatus `json:"status"`
	Notes      string                  `json:"notes,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// CreateProjectRequest carries the fields for creating a project
type CreateProjectRequest struct {
	Name       string     `json:"name" binding:"required"`
	ClientID   *uuid.UUID `json:"clientId"`
	ClientName string     `json:"clientName"`
	Notes      string     `json:"notes"`
}

// UpdateProjectRequest carries the fields for updating a project
type UpdateProjectRequest struct {
	Name       string     `json:"name" binding:"required"`
	ClientID   *uuid.UUID `json:"clientId"`
	ClientName string     `json:"clientName"`
	Notes      string     `json:"notes"`
}

// ToProjectResponse converts a project aggregate to its API shape
func ToProjectResponse(p *directory.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:         p.ID,
		Name:       p.Name,
		ClientID:   p.ClientID,
		ClientName: p.ClientName,
		Status:     p.Status,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// Create creates a new project. A client id, when given, must reference
// one of the owner's clients; the display name is snapshotted from it.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	clientName := req.ClientName
	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, ownerID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
		}
		clientName = client.Name
	}

	project, err := directory.NewProject(ownerID, req.Name, req.ClientID, clientName)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		if err := project.Update(req.Name, req.ClientID, clientName, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, project.GetDomainEvents())
	project.ClearDomainEvents()

	return ToProjectResponse(project), nil
}

// GetByID gets a project by id
func (s *ProjectService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return ToProjectResponse(project), nil
}

// List lists the owner's projects
func (s *ProjectService) List(ctx context.Context, ownerID uuid.UUID) ([]ProjectResponse, error) {
	projects, err := s.projectRepo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = *ToProjectResponse(p)
	}
	return responses, nil
}

// ListForClient lists the projects belonging to one client, matching by
// id with the legacy name fallback.
func (s *ProjectService) ListForClient(ctx context.Context, ownerID, clientID uuid.UUID) ([]ProjectResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
	}

	projects, err := s.projectRepo.FindByClient(ctx, ownerID, client.ID, client.Name)
	if err != nil {
		return nil, err
	}
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = *ToProjectResponse(p)
	}
	return responses, nil
}

// Update overwrites a project's editable fields
func (s *ProjectService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	clientName := req.ClientName
	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, ownerID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
		}
		clientName = client.Name
	}

	if err := project.Update(req.Name, req.ClientID, clientName, req.Notes); err != nil {
		return nil, err
	}

	if err := s.projectRepo.SaveWithLock(ctx, project); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, project.GetDomainEvents())
	project.ClearDomainEvents()

	return ToProjectResponse(project), nil
}

// ChangeStatus moves a project between Active, Completed, and On Hold
func (s *ProjectService) ChangeStatus(ctx context.Context, ownerID, id uuid.UUID, status directory.ProjectStatus) (*ProjectResponse, error) {
	project, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := project.ChangeStatus(status); err != nil {
		return nil, err
	}

	if err := s.projectRepo.SaveWithLock(ctx, project); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, project.GetDomainEvents())
	project.ClearDomainEvents()

	return ToProjectResponse(project), nil
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	project, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.publishEvents(ctx, []shared.DomainEvent{directory.NewProjectDeletedEvent(project)})

	return nil
}

func (s *ProjectService) findOwned(ctx context.Context, ownerID, id uuid.UUID) (*directory.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Project not found")
	}
	return project, nil
}

func (s *ProjectService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, event := range events {
		_ = s.eventBus.Publish(ctx, event)
	}
}
