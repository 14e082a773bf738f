package impersonate

import (
	"context"
	"time"

	"github.com/tendant/simple-admin/pkg/directory"
)

// DefaultMaxPerHour is the number of impersonation starts an admin gets in
// any trailing one-hour window when no limit is configured.
const DefaultMaxPerHour = 5

// StartResult is returned to the caller on a successful start. The token is
// never written to the audit trail.
type StartResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Target    directory.User `json:"target"`
}

// EndResult is returned when an impersonation session is explicitly ended.
type EndResult struct {
	Message string `json:"message"`
}

// Notifier receives a best-effort notice after a successful start. Unlike
// audit writes it is fire-and-forget: a notification failure never fails the
// request.
type Notifier interface {
	NotifyImpersonationStart(ctx context.Context, admin, target directory.User, expiresAt time.Time) error
}
