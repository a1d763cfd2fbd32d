package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/directory"
	"github.com/invoicedesk/backend/internal/domain/invoicing"
	"github.com/invoicedesk/backend/internal/domain/reporting"
	"go.uber.org/zap"
)

// DefaultWindowMonths is the bucket window used when the caller does not
// ask for one.
const DefaultWindowMonths = 6

// DashboardResponse bundles everything the dashboard screen shows
type DashboardResponse struct {
	Summary        reporting.DashboardSummary `json:"summary"`
	MonthlyRevenue []reporting.MonthBucket    `json:"monthlyRevenue"`
	RecentActivity []reporting.Activity       `json:"recentActivity"`
	GeneratedAt    time.Time                  `json:"generatedAt"`
}

// DashboardCache is the port for caching computed dashboards per owner.
// Implementations may be process-local or shared (Redis).
type DashboardCache interface {
	Get(ctx context.Context, ownerID uuid.UUID, months int) (*DashboardResponse, bool)
	Set(ctx context.Context, ownerID uuid.UUID, months int, dashboard *DashboardResponse)
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// DashboardService recomputes dashboard read models from the full invoice
// snapshot on demand. The aggregation itself is pure; this service only
// loads the snapshot, delegates, and caches the result.
type DashboardService struct {
	invoiceRepo invoicing.InvoiceRepository
	clientRepo  directory.ClientRepository
	projectRepo directory.ProjectRepository
	cache       DashboardCache
	logger      *zap.Logger
	now         func() time.Time
}

// DashboardServiceOption is a functional option for configuring DashboardService
type DashboardServiceOption func(*DashboardService)

// WithCache wires a dashboard cache
func WithCache(cache DashboardCache) DashboardServiceOption {
	return func(s *DashboardService) {
		s.cache = cache
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) DashboardServiceOption {
	return func(s *DashboardService) {
		s.logger = logger
	}
}

// WithClock overrides the service clock, used by tests
func WithClock(now func() time.Time) DashboardServiceOption {
	return func(s *DashboardService) {
		s.now = now
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	invoiceRepo invoicing.InvoiceRepository,
	clientRepo directory.ClientRepository,
	projectRepo directory.ProjectRepository,
	opts ...DashboardServiceOption,
) *DashboardService {
	s := &DashboardService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDashboard returns the owner's dashboard, recomputed from the current
// invoice snapshot unless a cached copy exists.
func (s *DashboardService) GetDashboard(ctx context.Context, ownerID uuid.UUID, months int) (*DashboardResponse, error) {
	if months <= 0 {
		months = DefaultWindowMonths
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, ownerID, months); ok {
			return cached, nil
		}
	}

	snapshot, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dashboard := &DashboardResponse{
		Summary:        reporting.Summarize(snapshot, now),
		MonthlyRevenue: reporting.MonthlyRevenue(snapshot, months, now),
		RecentActivity: reporting.RecentActivity(snapshot, reporting.RecentActivityLimit),
		GeneratedAt:    now,
	}

	if s.cache != nil {
		s.cache.Set(ctx, ownerID, months, dashboard)
	}

	return dashboard, nil
}

// ClientRollups returns the billing summary for every client of the owner
func (s *DashboardService) ClientRollups(ctx context.Context, ownerID uuid.UUID) ([]reporting.ClientRollup, error) {
	snapshot, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return reporting.RollupClients(snapshot, clients), nil
}

// ProjectRollups returns the billing summary for every project of the owner
func (s *DashboardService) ProjectRollups(ctx context.Context, ownerID uuid.UUID) ([]reporting.ProjectRollup, error) {
	snapshot, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	rollups := make([]reporting.ProjectRollup, 0, len(projects))
	for _, project := range projects {
		rollups = append(rollups, reporting.RollupProject(snapshot, project))
	}
	return rollups, nil
}

// loadSnapshot reads the owner's full invoice set. The aggregation engine
// always recomputes from the whole snapshot rather than applying deltas.
func (s *DashboardService) loadSnapshot(ctx context.Context, ownerID uuid.UUID) ([]*invoicing.Invoice, error) {
	invoices, err := s.invoiceRepo.FindAllForOwner(ctx, ownerID, invoicing.InvoiceFilter{})
	if err != nil {
		return nil, err
	}

	snapshot := make([]*invoicing.Invoice, len(invoices))
	for i := range invoices {
		snapshot[i] = &invoices[i]
	}
	return snapshot, nil
}
