package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/reporting"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dashboardKeyPrefix = "dashboard:"

// RedisDashboardCache is a shared DashboardCache for deployments running
// more than one API instance. Dashboards are stored as JSON under
// dashboard:<owner>:<months>; invalidation scans the owner's key prefix.
// Cache errors are logged and treated as misses so Redis being down never
// breaks the dashboard endpoint.
type RedisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisDashboardCache creates a Redis-backed dashboard cache and
// verifies the connection.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) (*RedisDashboardCache, error) {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDashboardCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached dashboard for an owner and month range
func (c *RedisDashboardCache) Get(ctx context.Context, ownerID uuid.UUID, months int) (*reporting.DashboardResponse, bool) {
	payload, err := c.client.Get(ctx, redisDashboardKey(ownerID, months)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var dashboard reporting.DashboardResponse
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		c.logger.Warn("dashboard cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &dashboard, true
}

// Set stores a computed dashboard with the configured TTL
func (c *RedisDashboardCache) Set(ctx context.Context, ownerID uuid.UUID, months int, dashboard *reporting.DashboardResponse) {
	payload, err := json.Marshal(dashboard)
	if err != nil {
		c.logger.Warn("dashboard cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisDashboardKey(ownerID, months), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached dashboard for an owner
func (c *RedisDashboardCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	pattern := dashboardKeyPrefix + ownerID.String() + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("dashboard cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func redisDashboardKey(ownerID uuid.UUID, months int) string {
	return fmt.Sprintf("%s%s:%d", dashboardKeyPrefix, ownerID, months)
}

var _ reporting.DashboardCache = (*RedisDashboardCache)(nil)
