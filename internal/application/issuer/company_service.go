package issuer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/issuer"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// CompanyService provides application-level company profile operations
type CompanyService struct {
	companyRepo issuer.CompanyRepository
	eventBus    shared.EventPublisher
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo issuer.CompanyRepository, eventBus shared.EventPublisher) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		eventBus:    eventBus,
	}
}

// CompanyResponse represents a company profile in API responses
type CompanyResponse struct {
	ID           uuid.UUID `json:"id"`
	CompanyName  string    `json:"companyName"`
	Address      string    `json:"address,omitempty"`
	CityStateZip string    `json:"cityStateZip,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Website      string    `json:"website,omitempty"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CompanyRequest carries the editable fields of a company profile
type CompanyRequest struct {
	CompanyName  string `json:"companyName" binding:"required"`
	Address      string `json:"address"`
	CityStateZip string `json:"cityStateZip"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	SetDefault   bool   `json:"setDefault"`
}

// ToCompanyResponse converts a company profile to its API shape
func ToCompanyResponse(p *issuer.CompanyProfile) *CompanyResponse {
	return &CompanyResponse{
		ID:           p.ID,
		CompanyName:  p.CompanyName,
		Address:      p.Address,
		CityStateZip: p.CityStateZip,
		Phone:        p.Phone,
		Email:        p.Email,
		Website:      p.Website,
		IsDefault:    p.IsDefault,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// Create creates a new company profile. The owner's first profile becomes
// the default automatically; otherwise the request may claim the default
// slot, which swaps it atomically.
func (s *CompanyService) Create(ctx context.Context, ownerID uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	profile, err := issuer.NewCompanyProfile(ownerID, toProfileInput(req))
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	existing, err := s.companyRepo.FindDefault(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.SetDefault || existing == nil {
		if err := s.setDefault(ctx, ownerID, profile); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, profile.GetDomainEvents())
	profile.ClearDomainEvents()

	return ToCompanyResponse(profile), nil
}

// GetByID gets a company profile by id
func (s *CompanyService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*CompanyResponse, error) {
	profile, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return ToCompanyResponse(profile), nil
}

// List lists the owner's company profiles
func (s *CompanyService) List(ctx context.Context, ownerID uuid.UUID) ([]CompanyResponse, error) {
	profiles, err := s.companyRepo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]CompanyResponse, len(profiles))
	for i, p := range profiles {
		responses[i] = *ToCompanyResponse(p)
	}
	return responses, nil
}

// Update overwrites a profile's editable fields and optionally moves the
// default slot to it.
func (s *CompanyService) Update(ctx context.Context, ownerID, id uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	profile, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := profile.Update(toProfileInput(req)); err != nil {
		return nil, err
	}

	if err := s.companyRepo.SaveWithLock(ctx, profile); err != nil {
		return nil, err
	}

	if req.SetDefault && !profile.IsDefault {
		if err := s.setDefault(ctx, ownerID, profile); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, profile.GetDomainEvents())
	profile.ClearDomainEvents()

	return ToCompanyResponse(profile), nil
}

// SetDefault moves the default slot to the given profile
func (s *CompanyService) SetDefault(ctx context.Context, ownerID, id uuid.UUID) (*CompanyResponse, error) {
	profile, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !profile.IsDefault {
		if err := s.setDefault(ctx, ownerID, profile); err != nil {
			return nil, err
		}
	}

	return ToCompanyResponse(profile), nil
}

// Delete removes a company profile. Deleting the default re-elects the
// oldest remaining profile so the owner never ends up without one while
// profiles exist. Invoices keep their frozen issuer snapshots regardless.
func (s *CompanyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	profile, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.companyRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if profile.IsDefault {
		remaining, err := s.companyRepo.FindAll(ctx, ownerID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			if err := s.companyRepo.SetDefault(ctx, ownerID, remaining[0].ID); err != nil {
				return err
			}
		}
	}

	s.publishEvents(ctx, []shared.DomainEvent{issuer.NewProfileDeletedEvent(profile)})

	return nil
}

// setDefault swaps the default flag through the repository's single
// transaction and mirrors the outcome onto the in-memory profile.
func (s *CompanyService) setDefault(ctx context.Context, ownerID uuid.UUID, profile *issuer.CompanyProfile) error {
	if err := s.companyRepo.SetDefault(ctx, ownerID, profile.ID); err != nil {
		return err
	}
	profile.IsDefault = true

	s.publishEvents(ctx, []shared.DomainEvent{issuer.NewDefaultChangedEvent(ownerID, profile.ID)})
	return nil
}

func (s *CompanyService) findOwned(ctx context.Context, ownerID, id uuid.UUID) (*issuer.CompanyProfile, error) {
	profile, err := s.companyRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Company profile not found")
	}
	return profile, nil
}

func (s *CompanyService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, event := range events {
		_ = s.eventBus.Publish(ctx, event)
	}
}

func toProfileInput(req CompanyRequest) issuer.ProfileInput {
	return issuer.ProfileInput{
		CompanyName:  req.CompanyName,
		Address:      req.Address,
		CityStateZip: req.CityStateZip,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
	}
}
