package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Save saves a client without a version check
func (r *GormClientRepository) Save(ctx context.Context, client *directory.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// SaveWithLock persists with an optimistic version check. The caller has
// already incremented Version, so the row must still hold Version-1.
func (r *GormClientRepository) SaveWithLock(ctx context.Context, client *directory.Client) error {
	result := r.db.WithContext(ctx).
		Model(&directory.Client{}).
		Where("id = ? AND version = ?", client.ID, client.Version-1).
		Select("*").
		Updates(client)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an owner's client by ID
func (r *GormClientRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*directory.Client, error) {
	var client directory.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// FindByName finds an owner's client by exact name
func (r *GormClientRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*directory.Client, error) {
	var client directory.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// FindAll finds all clients for an owner, newest first
func (r *GormClientRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]*directory.Client, error) {
	var clients []*directory.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// FindByStatus finds an owner's clients in the given status
func (r *GormClientRepository) FindByStatus(ctx context.Context, ownerID uuid.UUID, status directory.ClientStatus) ([]*directory.Client, error) {
	var clients []*directory.Client
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, string(status)).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Delete deletes an owner's client
func (r *GormClientRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&directory.Client{}).Error
}

var _ directory.ClientRepository = (*GormClientRepository)(nil)
