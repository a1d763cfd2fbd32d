package directory

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository is the persistence port for clients
type ClientRepository interface {
	Save(ctx context.Context, client *Client) error
	SaveWithLock(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Client, error)
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*Client, error)
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]*Client, error)
	FindByStatus(ctx context.Context, ownerID uuid.UUID, status ClientStatus) ([]*Client, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ProjectRepository is the persistence port for projects
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	SaveWithLock(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	FindByClient(ctx context.Context, ownerID, clientID uuid.UUID, clientName string) ([]*Project, error)
	FindByStatus(ctx context.Context, ownerID uuid.UUID, status ProjectStatus) ([]*Project, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
