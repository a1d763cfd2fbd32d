package directory

import "github.com/invoicedesk/backend/internal/domain/shared"

const (
	EventClientCreated  = "ClientCreated"
	EventClientUpdated  = "ClientUpdated"
	EventClientDeleted  = "ClientDeleted"
	EventProjectCreated = "ProjectCreated"
	EventProjectUpdated = "ProjectUpdated"
	EventProjectDeleted = "ProjectDeleted"
)

const (
	aggregateTypeClient  = "Client"
	aggregateTypeProject = "Project"
)

// ClientCreatedEvent is raised when a client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCreated, aggregateTypeClient, c.ID, c.OwnerID),
		Name:            c.Name,
	}
}

// ClientUpdatedEvent is raised when a client is updated
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
	Name   string       `json:"name"`
	Status ClientStatus `json:"status"`
}

// NewClientUpdatedEvent creates a new ClientUpdatedEvent
func NewClientUpdatedEvent(c *Client) *ClientUpdatedEvent {
	return &ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientUpdated, aggregateTypeClient, c.ID, c.OwnerID),
		Name:            c.Name,
		Status:          c.Status,
	}
}

// ClientDeletedEvent is raised when a client is removed
type ClientDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientDeletedEvent creates a new ClientDeletedEvent
func NewClientDeletedEvent(c *Client) *ClientDeletedEvent {
	return &ClientDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientDeleted, aggregateTypeClient, c.ID, c.OwnerID),
		Name:            c.Name,
	}
}

// ProjectCreatedEvent is raised when a project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProjectCreated, aggregateTypeProject, p.ID, p.OwnerID),
		Name:            p.Name,
	}
}

// ProjectUpdatedEvent is raised when a project is updated
type ProjectUpdatedEvent struct {
	shared.BaseDomainEvent
	Name   string        `json:"name"`
	Status ProjectStatus `json:"status"`
}

// NewProjectUpdatedEvent creates a new ProjectUpdatedEvent
func NewProjectUpdatedEvent(p *Project) *ProjectUpdatedEvent {
	return &ProjectUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProjectUpdated, aggregateTypeProject, p.ID, p.OwnerID),
		Name:            p.Name,
		Status:          p.Status,
	}
}

// ProjectDeletedEvent is raised when a project is removed
type ProjectDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProjectDeletedEvent creates a new ProjectDeletedEvent
func NewProjectDeletedEvent(p *Project) *ProjectDeletedEvent {
	return &ProjectDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProjectDeleted, aggregateTypeProject, p.ID, p.OwnerID),
		Name:            p.Name,
	}
}
