package issuer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// CompanyProfile is an issuing identity for invoices. An owner keeps one
// profile per business they invoice from; exactly one profile is the
// default, and new invoices freeze a snapshot of it at save time.
type CompanyProfile struct {
	shared.OwnedAggregateRoot
	CompanyName  string `gorm:"type:varchar(200);not null"`
	Address      string `gorm:"type:varchar(300)"`
	CityStateZip string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
	Email        string `gorm:"type:varchar(200)"`
	Website      string `gorm:"type:varchar(200)"`
	IsDefault    bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (CompanyProfile) TableName() string {
	return "company_profiles"
}

// ProfileInput carries the editable fields of a company profile
type ProfileInput struct {
	CompanyName  string
	Address      string
	CityStateZip string
	Phone        string
	Email        string
	Website      string
}

func validateProfile(input ProfileInput) error {
	if strings.TrimSpace(input.CompanyName) == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name is required")
	}
	if len(input.CompanyName) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}

// NewCompanyProfile creates a new non-default company profile
func NewCompanyProfile(ownerID uuid.UUID, input ProfileInput) (*CompanyProfile, error) {
	if err := validateProfile(input); err != nil {
		return nil, err
	}

	profile := &CompanyProfile{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		CompanyName:        input.CompanyName,
		Address:            input.Address,
		CityStateZip:       input.CityStateZip,
		Phone:              input.Phone,
		Email:              input.Email,
		Website:            input.Website,
	}

	profile.AddDomainEvent(NewProfileCreatedEvent(profile))

	return profile, nil
}

// Update overwrites the profile's editable fields. The default flag is not
// touched here; it only moves through CompanyRepository.SetDefault so the
// one-default invariant holds under concurrency.
func (p *CompanyProfile) Update(input ProfileInput) error {
	if err := validateProfile(input); err != nil {
		return err
	}

	p.CompanyName = input.CompanyName
	p.Address = input.Address
	p.CityStateZip = input.CityStateZip
	p.Phone = input.Phone
	p.Email = input.Email
	p.Website = input.Website
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProfileUpdatedEvent(p))

	return nil
}

// Snapshot returns the frozen issuer details embedded into an invoice
func (p *CompanyProfile) Snapshot() invoicing.IssuerSnapshot {
	return invoicing.IssuerSnapshot{
		CompanyName:  p.CompanyName,
		Address:      p.Address,
		CityStateZip: p.CityStateZip,
		Phone:        p.Phone,
		Email:        p.Email,
		Website:      p.Website,
	}
}
