package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemorySink implements Sink using in-memory storage
type InMemorySink struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemorySink creates a new in-memory audit sink
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

// Record appends an event
func (s *InMemorySink) Record(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)
	return nil
}

// ListByActor returns all events recorded for the given actor, oldest first
func (s *InMemorySink) ListByActor(ctx context.Context, actorID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Event
	for _, e := range s.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result, nil
}

// Events returns a copy of every recorded event, oldest first
func (s *InMemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
