package cache

import (
	"fmt"

	"github.com/invoicedesk/backend/internal/application/reporting"
	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewDashboardCache builds the DashboardCache selected by configuration.
// The "redis" backend shares entries across instances; anything a single
// process serves is fine on "memory".
func NewDashboardCache(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) (reporting.DashboardCache, error) {
	switch cacheCfg.Backend {
	case "memory", "":
		return NewMemoryDashboardCache(cacheCfg.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		return NewRedisDashboardCache(client, cacheCfg.TTL, logger)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cacheCfg.Backend)
	}
}
