package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validImpersonationConfig() ImpersonationConfig {
	return ImpersonationConfig{
		SigningKey: strings.Repeat("k", 32),
		TTLMinutes: 30,
		MaxPerHour: 5,
		Issuer:     "simple-admin",
		Audience:   "simple-admin",
	}
}

func TestImpersonationConfig_Valid(t *testing.T) {
	errs := validImpersonationConfig().Validate()
	assert.False(t, errs.HasErrors())
}

func TestImpersonationConfig_MissingSigningKey(t *testing.T) {
	cfg := validImpersonationConfig()
	cfg.SigningKey = ""

	errs := cfg.Validate()
	assert.True(t, errs.HasErrors())
	assert.Contains(t, errs.Error(), "signing key is required")
}

func TestImpersonationConfig_ShortSigningKey(t *testing.T) {
	cfg := validImpersonationConfig()
	cfg.SigningKey = strings.Repeat("k", 31)

	errs := cfg.Validate()
	assert.True(t, errs.HasErrors())
	assert.Contains(t, errs.Error(), "at least 32")
}

func TestImpersonationConfig_NonPositiveValues(t *testing.T) {
	cfg := validImpersonationConfig()
	cfg.TTLMinutes = 0
	cfg.MaxPerHour = -1

	errs := cfg.Validate()
	assert.Len(t, errs, 2)
}

func TestImpersonationConfig_ClampCapsOversizedValues(t *testing.T) {
	cfg := validImpersonationConfig()
	cfg.TTLMinutes = 10000
	cfg.MaxPerHour = 5000

	clamped := cfg.Clamp()
	assert.Equal(t, MaxTTLMinutes, clamped.TTLMinutes)
	assert.Equal(t, MaxPerHourCap, clamped.MaxPerHour)
}

func TestImpersonationConfig_ClampLeavesSaneValues(t *testing.T) {
	cfg := validImpersonationConfig()

	clamped := cfg.Clamp()
	assert.Equal(t, cfg, clamped)
}
