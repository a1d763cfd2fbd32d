package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner finds an invoice by ID scoped to an owner
func (r *GormInvoiceRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all invoices for an owner matching the filter
func (r *GormInvoiceRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("owner_id = ?", ownerID), filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// ExistsByNumber reports whether an owner already uses a display number
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, ownerID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("owner_id = ? AND number = ?", ownerID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save saves an invoice without a version check
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock persists with an optimistic version check. The caller has
// already incremented Version, so the row must still hold Version-1.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes an owner's invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.InvoiceModel{}).Error
}

// CountForOwner counts an owner's invoices matching the filter
func (r *GormInvoiceRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter invoicing.InvoiceFilter) (int64, error) {
	var count int64
	filter.OrderBy = ""
	filter.Limit = 0
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("owner_id = ?", ownerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// invoiceOrderColumns whitelists sortable columns; anything else falls back
// to creation time so user input never reaches the ORDER BY clause raw.
var invoiceOrderColumns = map[string]string{
	"created_at": "created_at",
	"issue_date": "issue_date",
	"due_date":   "due_date",
	"number":     "number",
	"amount_due": "amount_due",
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", filter.PaymentStatus.String())
	}
	if filter.ClientID != nil {
		if filter.ClientDetail != "" {
			// Legacy rows predate the client FK and are matched by the
			// name snapshot instead.
			query = query.Where("client_id = ? OR (client_id IS NULL AND client_detail = ?)",
				*filter.ClientID, filter.ClientDetail)
		} else {
			query = query.Where("client_id = ?", *filter.ClientID)
		}
	} else if filter.ClientDetail != "" {
		query = query.Where("client_detail = ?", filter.ClientDetail)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(number) LIKE ? OR LOWER(project_name) LIKE ? OR LOWER(client_detail) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.OrderBy != "" {
		column, ok := invoiceOrderColumns[filter.OrderBy]
		if !ok {
			column = "created_at"
		}
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", column, dir))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
