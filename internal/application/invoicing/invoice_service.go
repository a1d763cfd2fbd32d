package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/issuer"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
)

// numberAttempts bounds the retry loop for generated invoice numbers. The
// random 4-digit suffix collides rarely within one owner and year; when it
// does we draw again instead of surfacing a conflict to the user.
const numberAttempts = 5

// InvoiceService provides application-level invoice operations
type InvoiceService struct {
	invoiceRepo invoicing.InvoiceRepository
	companyRepo issuer.CompanyRepository
	eventBus    shared.EventPublisher
	now         func() time.Time
}

// InvoiceServiceOption is a functional option for configuring InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithClock overrides the service clock, used by tests
func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	companyRepo issuer.CompanyRepository,
	eventBus shared.EventPublisher,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		eventBus:    eventBus,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new invoice. When the request carries no number, one is
// generated and checked for uniqueness within the owner. When the request
// carries no explicit company, the owner's default profile (if any) is
// frozen into the invoice as the issuer snapshot.
func (s *InvoiceService) Create(ctx context.Context, ownerID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	issueDate, err := valueobject.ParseCivilDate(req.IssueDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue date must be YYYY-MM-DD")
	}
	var dueDate valueobject.CivilDate
	if req.DueDate != "" {
		dueDate, err = valueobject.ParseCivilDate(req.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date must be YYYY-MM-DD")
		}
	}

	number := req.Number
	if number == "" {
		number, err = s.generateNumber(ctx, ownerID)
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, ownerID, number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_NUMBER", "An invoice with this number already exists")
		}
	}

	status := invoicing.InvoiceStatus(req.Status)
	if req.Status == "" {
		status = invoicing.InvoiceStatusDraft
	}

	snapshot, companyID, err := s.resolveIssuer(ctx, ownerID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	inv, err := invoicing.NewInvoice(ownerID, invoicing.NewInvoiceInput{
		Number:        number,
		ProjectName:   req.ProjectName,
		ClientID:      req.ClientID,
		ClientDetail:  req.ClientDetail,
		ClientContact: req.ClientContact,
		ClientAddress: req.ClientAddress,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Items:         toLineItems(req.Items),
		Status:        status,
		CompanyID:     companyID,
		Issuer:        snapshot,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	return ToInvoiceResponse(inv), nil
}

// GetByID gets an invoice by id
func (s *InvoiceService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List lists the owner's invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, ownerID uuid.UUID, req ListInvoicesRequest) ([]InvoiceResponse, error) {
	filter := invoicing.InvoiceFilter{
		Search: req.Search,
		Limit:  req.Limit,
	}
	if req.Status != "" {
		status := invoicing.InvoiceStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invoice status is not valid")
		}
		filter.Status = &status
	}
	if req.PaymentStatus != "" {
		status := invoicing.PaymentStatus(req.PaymentStatus)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Payment status is not valid")
		}
		filter.PaymentStatus = &status
	}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Client id is not a valid uuid")
		}
		filter.ClientID = &clientID
	}

	invoices, err := s.invoiceRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// Update overwrites an invoice's editable fields. Payment mutations go
// through PaymentService, never through here.
func (s *InvoiceService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	issueDate, err := valueobject.ParseCivilDate(req.IssueDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue date must be YYYY-MM-DD")
	}
	var dueDate valueobject.CivilDate
	if req.DueDate != "" {
		dueDate, err = valueobject.ParseCivilDate(req.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date must be YYYY-MM-DD")
		}
	}

	if req.Number != "" && req.Number != inv.Number {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, ownerID, req.Number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_NUMBER", "An invoice with this number already exists")
		}
	}

	status := invoicing.InvoiceStatus(req.Status)
	if req.Status == "" {
		status = inv.Status
	}

	// The issuer snapshot is frozen at creation; updates keep it unless the
	// invoice is re-pointed at a different company profile.
	snapshot := inv.Issuer
	companyID := inv.CompanyID
	if req.CompanyID != nil && (companyID == nil || *req.CompanyID != *companyID) {
		snapshot, companyID, err = s.resolveIssuer(ctx, ownerID, req.CompanyID)
		if err != nil {
			return nil, err
		}
	}

	err = inv.UpdateDetails(invoicing.NewInvoiceInput{
		Number:        req.Number,
		ProjectName:   req.ProjectName,
		ClientID:      req.ClientID,
		ClientDetail:  req.ClientDetail,
		ClientContact: req.ClientContact,
		ClientAddress: req.ClientAddress,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Items:         toLineItems(req.Items),
		Status:        status,
		CompanyID:     companyID,
		Issuer:        snapshot,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	return ToInvoiceResponse(inv), nil
}

// Delete removes an invoice
func (s *InvoiceService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	inv, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, invoicing.NewInvoiceDeletedEvent(inv))
	}

	return nil
}

// Render returns the renderer-facing snapshot of an invoice
func (s *InvoiceService) Render(ctx context.Context, ownerID, id uuid.UUID) (*invoicing.RenderSnapshot, error) {
	inv, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	snap := inv.Render()
	return &snap, nil
}

func (s *InvoiceService) findOwned(ctx context.Context, ownerID, id uuid.UUID) (*invoicing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return inv, nil
}

func (s *InvoiceService) generateNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		number := invoicing.GenerateNumber(s.now())
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, ownerID, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("NUMBER_EXHAUSTED", "Could not generate a unique invoice number")
}

// resolveIssuer freezes the issuing company details for a new invoice. An
// explicit company id must exist; with no id the owner's default profile
// is used, and an owner with no profiles at all gets an empty snapshot.
func (s *InvoiceService) resolveIssuer(ctx context.Context, ownerID uuid.UUID, companyID *uuid.UUID) (invoicing.IssuerSnapshot, *uuid.UUID, error) {
	if companyID != nil {
		profile, err := s.companyRepo.FindByID(ctx, ownerID, *companyID)
		if err != nil {
			return invoicing.IssuerSnapshot{}, nil, err
		}
		if profile == nil {
			return invoicing.IssuerSnapshot{}, nil, shared.NewDomainError("NOT_FOUND", "Company profile not found")
		}
		return profile.Snapshot(), companyID, nil
	}

	profile, err := s.companyRepo.FindDefault(ctx, ownerID)
	if err != nil {
		return invoicing.IssuerSnapshot{}, nil, err
	}
	if profile == nil {
		return invoicing.IssuerSnapshot{}, nil, nil
	}
	id := profile.ID
	return profile.Snapshot(), &id, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *invoicing.Invoice) {
	if s.eventBus == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	inv.ClearDomainEvents()
}
