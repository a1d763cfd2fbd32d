package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Save saves a project without a version check
func (r *GormProjectRepository) Save(ctx context.Context, project *directory.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// SaveWithLock persists with an optimistic version check
func (r *GormProjectRepository) SaveWithLock(ctx context.Context, project *directory.Project) error {
	result := r.db.WithContext(ctx).
		Model(&directory.Project{}).
		Where("id = ? AND version = ?", project.ID, project.Version-1).
		Select("*").
		Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an owner's project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*directory.Project, error) {
	var project directory.Project
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// FindAll finds all projects for an owner, newest first
func (r *GormProjectRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]*directory.Project, error) {
	var projects []*directory.Project
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByClient finds an owner's projects for a client. Rows created before
// the client FK existed carry only the name snapshot, so those are matched
// by name when the FK column is null.
func (r *GormProjectRepository) FindByClient(ctx context.Context, ownerID, clientID uuid.UUID, clientName string) ([]*directory.Project, error) {
	var projects []*directory.Project
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if clientName != "" {
		query = query.Where("client_id = ? OR (client_id IS NULL AND client_name = ?)", clientID, clientName)
	} else {
		query = query.Where("client_id = ?", clientID)
	}
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByStatus finds an owner's projects in the given status
func (r *GormProjectRepository) FindByStatus(ctx context.Context, ownerID uuid.UUID, status directory.ProjectStatus) ([]*directory.Project, error) {
	var projects []*directory.Project
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, string(status)).
		Order("name ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete deletes an owner's project
func (r *GormProjectRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&directory.Project{}).Error
}

var _ directory.ProjectRepository = (*GormProjectRepository)(nil)
