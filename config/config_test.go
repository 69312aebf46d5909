package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, 10, cfg.Order.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.Order.RateLimitWindow)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9000")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("HTTP_TRUST_PROXY", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("CATALOG_LIST_CACHE_TTL", "30s")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, ":9000", cfg.Server.HTTPPort)
	assert.True(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.Equal(t, 30*time.Second, cfg.Catalog.ListCacheTTL)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
}
