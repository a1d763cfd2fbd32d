package directory

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "Active"
	ClientStatusInactive ClientStatus = "Inactive"
)

// IsValid checks if the status is a valid ClientStatus
func (s ClientStatus) IsValid() bool {
	return s == ClientStatusActive || s == ClientStatusInactive
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Client is a billed party in the directory context. Invoices reference
// clients by id and additionally carry a point-in-time name snapshot, so
// renaming a client never rewrites issued invoices.
type Client struct {
	shared.OwnedAggregateRoot
	Name    string       `gorm:"type:varchar(200);not null;index"`
	Contact string       `gorm:"type:varchar(200)"` // Contact person or email line
	Email   string       `gorm:"type:varchar(200);index"`
	Phone   string       `gorm:"type:varchar(50)"`
	Address string       `gorm:"type:text"`
	Status  ClientStatus `gorm:"type:varchar(20);not null;default:'Active'"`
	Notes   string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

func validateClientName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

// NewClient creates a new active client
func NewClient(ownerID uuid.UUID, name string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}

	client := &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Status:             ClientStatusActive,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update overwrites the client's editable fields
func (c *Client) Update(name, contact, email, phone, address, notes string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Name = name
	c.Contact = contact
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

// Activate marks the client as active
func (c *Client) Activate() {
	if c.Status == ClientStatusActive {
		return
	}
	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
}

// Deactivate marks the client as inactive. Inactive clients keep their
// invoices and rollup history but stop appearing in pickers.
func (c *Client) Deactivate() {
	if c.Status == ClientStatusInactive {
		return
	}
	c.Status = ClientStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}
