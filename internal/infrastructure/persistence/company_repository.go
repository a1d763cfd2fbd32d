package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/issuer"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Save saves a company profile without a version check
func (r *GormCompanyRepository) Save(ctx context.Context, profile *issuer.CompanyProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// SaveWithLock persists with an optimistic version check
func (r *GormCompanyRepository) SaveWithLock(ctx context.Context, profile *issuer.CompanyProfile) error {
	result := r.db.WithContext(ctx).
		Model(&issuer.CompanyProfile{}).
		Where("id = ? AND version = ?", profile.ID, profile.Version-1).
		Select("*").
		Updates(profile)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an owner's company profile by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*issuer.CompanyProfile, error) {
	var profile issuer.CompanyProfile
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll finds all company profiles for an owner, oldest first so the
// first-created profile is the natural fallback default.
func (r *GormCompanyRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]*issuer.CompanyProfile, error) {
	var profiles []*issuer.CompanyProfile
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindDefault finds the owner's default company profile
func (r *GormCompanyRepository) FindDefault(ctx context.Context, ownerID uuid.UUID) (*issuer.CompanyProfile, error) {
	var profile issuer.CompanyProfile
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_default = ?", ownerID, true).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// SetDefault moves the default flag to the given profile. The clear and the
// set run in one transaction so readers never observe zero or two defaults.
func (r *GormCompanyRepository) SetDefault(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&issuer.CompanyProfile{}).
			Where("owner_id = ? AND is_default = ?", ownerID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&issuer.CompanyProfile{}).
			Where("owner_id = ? AND id = ?", ownerID, id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("NOT_FOUND", "Company profile not found")
		}
		return nil
	})
}

// Delete deletes an owner's company profile
func (r *GormCompanyRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&issuer.CompanyProfile{}).Error
}

var _ issuer.CompanyRepository = (*GormCompanyRepository)(nil)
