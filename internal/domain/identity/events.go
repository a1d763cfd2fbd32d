package identity

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

const (
	EventUserRegistered = "UserRegistered"
	EventUserLoggedIn   = "UserLoggedIn"
	aggregateTypeUser   = "User"
)

// UserRegisteredEvent is raised when a user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserRegistered, aggregateTypeUser, u.ID, u.ID),
		Email:           u.Email,
	}
}

// UserLoggedInEvent is raised on successful authentication
type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserLoggedInEvent creates a new UserLoggedInEvent
func NewUserLoggedInEvent(userID uuid.UUID, email string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserLoggedIn, aggregateTypeUser, userID, userID),
		Email:           email,
	}
}
