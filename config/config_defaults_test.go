package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_FillsMissingSections(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	require.NotNil(t, cfg.Auth)
	require.NotNil(t, cfg.Idempotency)
	require.NotNil(t, cfg.Audit)
	require.NotNil(t, cfg.QRCode)
	require.NotNil(t, cfg.Migration)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.True(t, cfg.Idempotency.Enabled)
	assert.Equal(t, "memory", cfg.Idempotency.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, 8, cfg.Idempotency.MinKeyLength)
	assert.Equal(t, 180*24*time.Hour, cfg.Audit.Retention)
	assert.Equal(t, "@daily", cfg.Audit.PurgeSchedule)
	assert.Equal(t, 256, cfg.QRCode.Size)
	assert.Equal(t, "M", cfg.QRCode.ErrorCorrectionLevel)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Idempotency: &IdempotencyConfig{Enabled: false, Provider: "redis", TTL: time.Hour, MinKeyLength: 16},
		Audit:       &AuditConfig{PurgeSchedule: "0 3 * * *"},
	}

	applyDefaults(cfg)

	assert.False(t, cfg.Idempotency.Enabled)
	assert.Equal(t, "redis", cfg.Idempotency.Provider)
	assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, 16, cfg.Idempotency.MinKeyLength)
	assert.Equal(t, "0 3 * * *", cfg.Audit.PurgeSchedule)
}
