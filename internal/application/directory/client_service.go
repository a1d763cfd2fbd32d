package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// ClientService provides application-level client operations
type ClientService struct {
	clientRepo  directory.ClientRepository
	projectRepo directory.ProjectRepository
	eventBus    shared.EventPublisher
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo directory.ClientRepository,
	projectRepo directory.ProjectRepository,
	eventBus shared.EventPublisher,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		eventBus:    eventBus,
	}
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Contact   string                 `json:"contact,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Address   string                 `json:"address,omitempty"`
	Status    directory.ClientStatus `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// CreateClientRequest carries the fields for creating a client
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateClientRequest carries the fields for updating a client
type UpdateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// ToClientResponse converts a client aggregate to its API shape
func ToClientResponse(c *directory.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Status:    c.Status,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, ownerID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := directory.NewClient(ownerID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Contact != "" || req.Email != "" || req.Phone != "" || req.Address != "" || req.Notes != "" {
		if err := client.Update(req.Name, req.Contact, req.Email, req.Phone, req.Address, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, client.GetDomainEvents())
	client.ClearDomainEvents()

	return ToClientResponse(client), nil
}

// GetByID gets a client by id
func (s *ClientService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// List lists the owner's clients
func (s *ClientService) List(ctx context.Context, ownerID uuid.UUID) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]ClientResponse, len(clients))
	for i, c := range clients {
		responses[i] = *ToClientResponse(c)
	}
	return responses, nil
}

// Update overwrites a client's editable fields
func (s *ClientService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := client.Update(req.Name, req.Contact, req.Email, req.Phone, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, client.GetDomainEvents())
	client.ClearDomainEvents()

	return ToClientResponse(client), nil
}

// SetStatus activates or deactivates a client
func (s *ClientService) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status directory.ClientStatus) (*ClientResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Client status is not valid")
	}

	client, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if status == directory.ClientStatusActive {
		client.Activate()
	} else {
		client.Deactivate()
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, client.GetDomainEvents())
	client.ClearDomainEvents()

	return ToClientResponse(client), nil
}

// Delete removes a client. Its invoices keep their frozen clientDetail
// snapshot, so history survives the deletion.
func (s *ClientService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	client, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.publishEvents(ctx, []shared.DomainEvent{directory.NewClientDeletedEvent(client)})

	return nil
}

func (s *ClientService) findOwned(ctx context.Context, ownerID, id uuid.UUID) (*directory.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
	}
	return client, nil
}

func (s *ClientService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, event := range events {
		_ = s.eventBus.Publish(ctx, event)
	}
}
