package audit

import (
	"time"

	"github.com/google/uuid"
)

// Severity levels for audit events.
const (
	SeverityInfo = "info"
	SeverityWarn = "warn"
)

// Actions recorded by the admin console.
const (
	ActionImpersonationStart = "impersonation_start"
	ActionImpersonationEnd   = "impersonation_end"
)

// Event is an append-only record of a security-relevant action.
// It is used for after-the-fact review, never for access control decisions.
type Event struct {
	ID        uuid.UUID              `json:"id"`
	ActorID   uuid.UUID              `json:"actor_id"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	Severity  string                 `json:"severity"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
