package impersonate

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-admin/pkg/audit"
	"github.com/tendant/simple-admin/pkg/credential"
)

// Service orchestrates an impersonation start: safety policy, rate limiter,
// credential issuance and audit write, strictly in that order. Each step
// gates the next; none run concurrently.
type Service struct {
	policy     *Policy
	limiter    StartLimiter
	issuer     *credential.Issuer
	sink       audit.Sink
	notifier   Notifier
	maxPerHour int
}

// Option configures a Service
type Option func(*Service)

// WithLimiter replaces the default in-memory sliding-window limiter
func WithLimiter(limiter StartLimiter) Option {
	return func(s *Service) {
		if limiter != nil {
			s.limiter = limiter
		}
	}
}

// WithMaxPerHour overrides the default limit of impersonation starts per
// admin per trailing hour
func WithMaxPerHour(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxPerHour = max
		}
	}
}

// WithNotifier enables a fire-and-forget notification after each successful
// start
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// NewService creates a new impersonation service
func NewService(dir UserDirectory, issuer *credential.Issuer, sink audit.Sink, opts ...Option) *Service {
	s := &Service{
		policy:     NewPolicy(dir),
		limiter:    NewWindowLimiter(),
		issuer:     issuer,
		sink:       sink,
		maxPerHour: DefaultMaxPerHour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start grants adminID a time-boxed credential to act as targetID.
//
// Policy and rate-limit denials are definitive: they consume no rate-limit
// slot, write no audit event, and are never retried. The audit record is
// written before the credential is returned; if the write fails the caller
// gets an internal error and no token, because an un-audited impersonation
// grant is worse than a failed request.
func (s *Service) Start(ctx context.Context, adminID, targetID uuid.UUID) (StartResult, error) {
	admin, target, err := s.policy.Check(ctx, adminID, targetID)
	if err != nil {
		return StartResult{}, err
	}

	if !s.limiter.CheckAndRecord(adminID, s.maxPerHour) {
		slog.Info("Impersonation rate limit hit", "adminId", adminID, "maxPerHour", s.maxPerHour)
		return StartResult{}, rateLimitedError(s.maxPerHour)
	}

	token, expiresAt, err := s.issuer.Issue(adminID, targetID)
	if err != nil {
		slog.Error("Failed to issue impersonation credential", "adminId", adminID, "targetId", targetID, "err", err)
		return StartResult{}, internalError(err)
	}

	event := audit.Event{
		ActorID:  adminID,
		Action:   audit.ActionImpersonationStart,
		Resource: targetID.String(),
		Severity: audit.SeverityWarn,
		Metadata: map[string]interface{}{
			"target_email": target.Email,
			"ttl_minutes":  int(s.issuer.TTL().Minutes()),
			"expires_at":   expiresAt,
		},
	}
	if err := s.sink.Record(ctx, event); err != nil {
		slog.Error("Failed to record impersonation start", "adminId", adminID, "targetId", targetID, "err", err)
		return StartResult{}, internalError(err)
	}

	if s.notifier != nil {
		go func() {
			if err := s.notifier.NotifyImpersonationStart(context.WithoutCancel(ctx), admin, target, expiresAt); err != nil {
				slog.Warn("Failed to send impersonation notification", "adminId", adminID, "err", err)
			}
		}()
	}

	return StartResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Target:    target,
	}, nil
}

// Verify checks an impersonation credential and returns the scope it
// grants. Resource handlers call this before honoring a request made under
// an impersonated identity. Every rejection maps to the same error; the
// holder of a token learns nothing about which check failed.
func (s *Service) Verify(token string) (credential.Scope, error) {
	scope, err := s.issuer.Validate(token)
	if err != nil {
		return credential.Scope{}, invalidCredentialError(err)
	}
	return scope, nil
}

// End records that adminID stopped acting as targetID. The credential is not
// revoked server-side; it self-expires. End exists so the audit trail pairs
// every start with an explicit end when the admin finishes early.
func (s *Service) End(ctx context.Context, adminID, targetID uuid.UUID) (EndResult, error) {
	// Starting access is the security-sensitive action; ending it early
	// is routine.
	event := audit.Event{
		ActorID:  adminID,
		Action:   audit.ActionImpersonationEnd,
		Resource: targetID.String(),
		Severity: audit.SeverityInfo,
	}
	if err := s.sink.Record(ctx, event); err != nil {
		slog.Error("Failed to record impersonation end", "adminId", adminID, "targetId", targetID, "err", err)
		return EndResult{}, internalError(err)
	}

	return EndResult{Message: "impersonation ended"}, nil
}
