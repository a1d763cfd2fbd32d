package logger

import (
	"context"
	"testing"

	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	l := New(config.LogConfig{Level: "debug", Format: "json", Output: "stdout"})
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(parseLevel("debug")))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, parseLevel("debug").String(), "debug")
	assert.Equal(t, parseLevel("WARN").String(), "warn")
	assert.Equal(t, parseLevel("nonsense").String(), "info")
}

func TestContextRoundTrip(t *testing.T) {
	base := New(config.LogConfig{Level: "info", Format: "json", Output: "stdout"})

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")
	require.NotNil(t, enriched)
	assert.Equal(t, "req-123", GetRequestID(ctx))

	ctx, _ = WithUserID(ctx, enriched, "user-456")
	assert.Equal(t, "user-456", GetUserID(ctx))

	// Logger stored by WithRequestID is retrievable
	assert.NotNil(t, FromContext(ctx))
}

func TestFromContext_MissingLogger(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
