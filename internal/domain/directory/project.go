package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusOnHold    ProjectStatus = "On Hold"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project is a unit of client work that invoices bill against. Projects
// created before client records existed carry only a free-text ClientName;
// newer projects link by ClientID and keep the name as a display snapshot.
type Project struct {
	shared.OwnedAggregateRoot
	Name       string        `gorm:"type:varchar(200);not null;index"`
	ClientID   *uuid.UUID    `gorm:"type:uuid;index"`
	ClientName string        `gorm:"type:varchar(200)"` // Display snapshot, also the legacy join key
	Status     ProjectStatus `gorm:"type:varchar(20);not null;default:'Active'"`
	Notes      string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

func validateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	return nil
}

// NewProject creates a new active project
func NewProject(ownerID uuid.UUID, name string, clientID *uuid.UUID, clientName string) (*Project, error) {
	if err := validateProjectName(name); err != nil {
		return nil, err
	}

	project := &Project{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		ClientID:           clientID,
		ClientName:         clientName,
		Status:             ProjectStatusActive,
	}

	project.AddDomainEvent(NewProjectCreatedEvent(project))

	return project, nil
}

// Update overwrites the project's editable fields
func (p *Project) Update(name string, clientID *uuid.UUID, clientName, notes string) error {
	if err := validateProjectName(name); err != nil {
		return err
	}

	p.Name = name
	p.ClientID = clientID
	p.ClientName = clientName
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProjectUpdatedEvent(p))

	return nil
}

// ChangeStatus moves the project to a new lifecycle status
func (p *Project) ChangeStatus(status ProjectStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Project status is not valid")
	}
	if p.Status == status {
		return nil
	}

	p.Status = status
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProjectUpdatedEvent(p))

	return nil
}

// BelongsToClient reports whether this project belongs to the given client,
// preferring the id link and falling back to the legacy name match.
func (p *Project) BelongsToClient(clientID uuid.UUID, clientName string) bool {
	if p.ClientID != nil {
		return *p.ClientID == clientID
	}
	return p.ClientName != "" && p.ClientName == clientName
}
