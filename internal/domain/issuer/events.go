package issuer

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

const (
	EventProfileCreated  = "CompanyProfileCreated"
	EventProfileUpdated  = "CompanyProfileUpdated"
	EventProfileDeleted  = "CompanyProfileDeleted"
	EventDefaultChanged  = "CompanyDefaultChanged"
	aggregateTypeProfile = "CompanyProfile"
)

// ProfileCreatedEvent is raised when a company profile is created
type ProfileCreatedEvent struct {
	shared.BaseDomainEvent
	CompanyName string `json:"companyName"`
}

// NewProfileCreatedEvent creates a new ProfileCreatedEvent
func NewProfileCreatedEvent(p *CompanyProfile) *ProfileCreatedEvent {
	return &ProfileCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProfileCreated, aggregateTypeProfile, p.ID, p.OwnerID),
		CompanyName:     p.CompanyName,
	}
}

// ProfileUpdatedEvent is raised when a company profile is updated
type ProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	CompanyName string `json:"companyName"`
}

// NewProfileUpdatedEvent creates a new ProfileUpdatedEvent
func NewProfileUpdatedEvent(p *CompanyProfile) *ProfileUpdatedEvent {
	return &ProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProfileUpdated, aggregateTypeProfile, p.ID, p.OwnerID),
		CompanyName:     p.CompanyName,
	}
}

// ProfileDeletedEvent is raised when a company profile is removed
type ProfileDeletedEvent struct {
	shared.BaseDomainEvent
	CompanyName string `json:"companyName"`
}

// NewProfileDeletedEvent creates a new ProfileDeletedEvent
func NewProfileDeletedEvent(p *CompanyProfile) *ProfileDeletedEvent {
	return &ProfileDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProfileDeleted, aggregateTypeProfile, p.ID, p.OwnerID),
		CompanyName:     p.CompanyName,
	}
}

// DefaultChangedEvent is raised when the default profile moves
type DefaultChangedEvent struct {
	shared.BaseDomainEvent
	NewDefaultID uuid.UUID `json:"newDefaultId"`
}

// NewDefaultChangedEvent creates a new DefaultChangedEvent
func NewDefaultChangedEvent(ownerID, profileID uuid.UUID) *DefaultChangedEvent {
	return &DefaultChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDefaultChanged, aggregateTypeProfile, profileID, ownerID),
		NewDefaultID:    profileID,
	}
}
