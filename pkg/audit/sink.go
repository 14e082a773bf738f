package audit

import (
	"context"

	"github.com/google/uuid"
)

// Sink is a durable, append-only destination for audit events. Callers that
// treat the audit record as a safety control must wait for Record to return
// before reporting success.
type Sink interface {
	Record(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]Event, error)
}
