package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/reporting"
)

// DefaultDashboardTTL bounds staleness when an invalidation event is missed.
const DefaultDashboardTTL = 5 * time.Minute

// MemoryDashboardCache is a process-local DashboardCache. Entries are keyed
// by (owner, months) so differently-sized month ranges cache independently,
// and the whole owner is dropped on invalidation.
type MemoryDashboardCache struct {
	mu      sync.RWMutex
	entries map[string]dashboardEntry
	ttl     time.Duration
	now     func() time.Time
}

type dashboardEntry struct {
	dashboard *reporting.DashboardResponse
	ownerID   uuid.UUID
	expiresAt time.Time
}

// NewMemoryDashboardCache creates a new in-memory dashboard cache. A
// non-positive ttl falls back to DefaultDashboardTTL.
func NewMemoryDashboardCache(ttl time.Duration) *MemoryDashboardCache {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &MemoryDashboardCache{
		entries: make(map[string]dashboardEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached dashboard for an owner and month range
func (c *MemoryDashboardCache) Get(_ context.Context, ownerID uuid.UUID, months int) (*reporting.DashboardResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[dashboardKey(ownerID, months)]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.dashboard, true
}

// Set stores a computed dashboard
func (c *MemoryDashboardCache) Set(_ context.Context, ownerID uuid.UUID, months int, dashboard *reporting.DashboardResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dashboardKey(ownerID, months)] = dashboardEntry{
		dashboard: dashboard,
		ownerID:   ownerID,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops every cached dashboard for an owner
func (c *MemoryDashboardCache) Invalidate(_ context.Context, ownerID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if entry.ownerID == ownerID {
			delete(c.entries, key)
		}
	}
}

func dashboardKey(ownerID uuid.UUID, months int) string {
	return fmt.Sprintf("%s:%d", ownerID, months)
}

var _ reporting.DashboardCache = (*MemoryDashboardCache)(nil)
