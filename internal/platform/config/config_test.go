package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"BLOOMIT_ADDR", "REQUEST_TIMEOUT", "BLOOMIT_ENV", "JWT_SIGNING_KEY", "TOKEN_TTL", "REDIS_URL", "DATABASE_URL", "KAFKA_BROKERS", "AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.UsesDevSigningKey())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "bloomit.password-reset", cfg.Kafka.ResetTopic)
	assert.Equal(t, 20, cfg.RateLimit.AuthLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.AuthWindow)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BLOOMIT_ADDR", ":9090")
	t.Setenv("BLOOMIT_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "s3cret")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("RESET_TOKEN_TTL", "not-a-duration")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("AUTH_RATE_LIMIT", "0")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.UsesDevSigningKey())
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.Zero(t, cfg.RateLimit.AuthLimit)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
