package models

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the GORM model for the invoices table. The line items,
// payment ledger, and issuer snapshot are stored as JSONB documents; totals
// are denormalized into decimal columns so aggregation queries never have to
// unpack the documents.
type InvoiceModel struct {
	OwnedAggregateModel
	Number        string                   `gorm:"type:varchar(64);not null;index"`
	ProjectName   string                   `gorm:"type:varchar(255)"`
	ClientID      *uuid.UUID               `gorm:"type:uuid;index"`
	ClientDetail  string                   `gorm:"type:varchar(255);index"`
	ClientContact string                   `gorm:"type:varchar(255)"`
	ClientAddress string                   `gorm:"type:text"`
	IssueDate     valueobject.CivilDate    `gorm:"type:date;not null"`
	DueDate       valueobject.CivilDate    `gorm:"type:date;not null"`
	Items         invoicing.LineItems      `gorm:"type:jsonb;not null"`
	Subtotal      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Tax           decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	AmountDue     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	AmountPaid    decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Payments      invoicing.Payments       `gorm:"type:jsonb;not null"`
	PaymentStatus string                   `gorm:"type:varchar(20);not null;index"`
	Status        string                   `gorm:"type:varchar(20);not null;index"`
	CompanyID     *uuid.UUID               `gorm:"type:uuid"`
	Issuer        invoicing.IssuerSnapshot `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	return &invoicing.Invoice{
		OwnedAggregateRoot: m.toOwnedAggregateRoot(),
		Number:             m.Number,
		ProjectName:        m.ProjectName,
		ClientID:           m.ClientID,
		ClientDetail:       m.ClientDetail,
		ClientContact:      m.ClientContact,
		ClientAddress:      m.ClientAddress,
		IssueDate:          m.IssueDate,
		DueDate:            m.DueDate,
		Items:              m.Items,
		Subtotal:           m.Subtotal,
		Tax:                m.Tax,
		AmountDue:          m.AmountDue,
		AmountPaid:         m.AmountPaid,
		Payments:           m.Payments,
		PaymentStatus:      invoicing.PaymentStatus(m.PaymentStatus),
		Status:             invoicing.InvoiceStatus(m.Status),
		CompanyID:          m.CompanyID,
		Issuer:             m.Issuer,
	}
}

// FromDomain populates the model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainOwnedAggregateRoot(inv.OwnedAggregateRoot)
	m.Number = inv.Number
	m.ProjectName = inv.ProjectName
	m.ClientID = inv.ClientID
	m.ClientDetail = inv.ClientDetail
	m.ClientContact = inv.ClientContact
	m.ClientAddress = inv.ClientAddress
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Items = inv.Items
	m.Subtotal = inv.Subtotal
	m.Tax = inv.Tax
	m.AmountDue = inv.AmountDue
	m.AmountPaid = inv.AmountPaid
	m.Payments = inv.Payments
	m.PaymentStatus = inv.PaymentStatus.String()
	m.Status = inv.Status.String()
	m.CompanyID = inv.CompanyID
	m.Issuer = inv.Issuer
}

// InvoiceModelFromDomain creates a model from a domain Invoice
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
