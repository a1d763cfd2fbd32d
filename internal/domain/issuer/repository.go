package issuer

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository is the persistence port for company profiles.
// SetDefault must clear the previous default and set the new one in a
// single transaction so readers never observe zero or two defaults.
type CompanyRepository interface {
	Save(ctx context.Context, profile *CompanyProfile) error
	SaveWithLock(ctx context.Context, profile *CompanyProfile) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*CompanyProfile, error)
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]*CompanyProfile, error)
	FindDefault(ctx context.Context, ownerID uuid.UUID) (*CompanyProfile, error)
	SetDefault(ctx context.Context, ownerID, id uuid.UUID) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
