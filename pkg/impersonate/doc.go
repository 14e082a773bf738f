// Package impersonate grants an admin temporary, auditable access to act as
// another user without exposing that user's credentials.
//
// A start request passes through four gates in order:
//
//  1. safety policy: no self-impersonation, the actor must be an admin, the
//     target must exist and must not be an admin
//  2. rate limiter: at most N starts per admin in any trailing hour
//     (default 5), checked and recorded atomically
//  3. credential issuance: a signed, time-boxed token scoped to the
//     admin/target pair (see pkg/credential)
//  4. audit: an impersonation_start event is written and awaited before the
//     token is returned
//
// Denials are definitive and produce no audit event; only successful starts
// and explicit ends are audited. There is no server-side session: "active"
// means an unexpired credential exists on a client, so End is an audit-only
// action and the credential simply expires.
//
// # Basic Usage
//
//	issuer, _ := credential.NewIssuer(secret, "simple-admin", "simple-admin", 30*time.Minute)
//	svc := impersonate.NewService(directoryService, issuer, auditSink,
//		impersonate.WithMaxPerHour(5),
//	)
//
//	result, err := svc.Start(ctx, adminID, targetID)
//	// result.Token, result.ExpiresAt, result.Target
//
//	_, err = svc.End(ctx, adminID, targetID)
package impersonate
