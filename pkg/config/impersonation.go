package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/simple-admin/pkg/credential"
)

// Upper bounds applied by Clamp. A misconfigured deployment (say a TTL of
// 10000 minutes) would silently void the time-boxing guarantee, so values
// above these caps are reduced rather than trusted.
const (
	MaxTTLMinutes = 240
	MaxPerHourCap = 100
)

// ImpersonationConfig holds impersonation subsystem configuration
type ImpersonationConfig struct {
	SigningKey string `env:"IMPERSONATION_JWT_SECRET"`
	TTLMinutes int    `env:"IMPERSONATION_TTL_MINUTES" env-default:"30"`
	MaxPerHour int    `env:"IMPERSONATION_MAX_PER_HOUR" env-default:"5"`
	Issuer     string `env:"IMPERSONATION_JWT_ISSUER" env-default:"simple-admin"`
	Audience   string `env:"IMPERSONATION_JWT_AUDIENCE" env-default:"simple-admin"`
}

// TTL returns the configured credential lifetime
func (c ImpersonationConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Validate checks that the signing key is present and long enough
func (c ImpersonationConfig) Validate() ValidationErrors {
	var errs ValidationErrors
	if c.SigningKey == "" {
		errs = append(errs, ValidationError{
			Field:   "IMPERSONATION_JWT_SECRET",
			Message: "signing key is required",
		})
	} else if len(c.SigningKey) < credential.MinKeyLength {
		errs = append(errs, ValidationError{
			Field:   "IMPERSONATION_JWT_SECRET",
			Message: fmt.Sprintf("signing key must be at least %d characters", credential.MinKeyLength),
		})
	}
	if c.TTLMinutes <= 0 {
		errs = append(errs, ValidationError{
			Field:   "IMPERSONATION_TTL_MINUTES",
			Message: "ttl must be positive",
		})
	}
	if c.MaxPerHour <= 0 {
		errs = append(errs, ValidationError{
			Field:   "IMPERSONATION_MAX_PER_HOUR",
			Message: "max per hour must be positive",
		})
	}
	return errs
}

// Clamp caps oversized TTL and rate-limit values and returns the result.
// Reductions are logged so a misconfiguration is visible at startup.
func (c ImpersonationConfig) Clamp() ImpersonationConfig {
	if c.TTLMinutes > MaxTTLMinutes {
		slog.Warn("Clamping impersonation TTL", "configured", c.TTLMinutes, "max", MaxTTLMinutes)
		c.TTLMinutes = MaxTTLMinutes
	}
	if c.MaxPerHour > MaxPerHourCap {
		slog.Warn("Clamping impersonation rate limit", "configured", c.MaxPerHour, "max", MaxPerHourCap)
		c.MaxPerHour = MaxPerHourCap
	}
	return c
}
