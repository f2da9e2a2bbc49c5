// Package observer decouples history changes from whoever presents or records them.
//
// Notification is synchronous and ordered: observers run in registration order
// and the first observer that returns an error stops the sequence. That error
// is returned to the caller of Notify unchanged; later observers are not run.
package observer

import (
	"context"
	"sync"
)

// EventKind names a history change.
type EventKind string

const (
	CalculationAdded   EventKind = "calculation_added"
	CalculationDeleted EventKind = "calculation_deleted"
	HistoryCleared     EventKind = "history_cleared"
	HistorySaved       EventKind = "history_saved"
	HistoryLoaded      EventKind = "history_loaded"
)

// Event is delivered to every registered Observer.
type Event struct {
	Kind    EventKind
	Payload any
}

// Observer receives events from a Subject. Implementations must be comparable
// (typically pointers) so registration can be deduplicated.
type Observer interface {
	Update(ctx context.Context, ev Event) error
}

// Subject keeps an ordered set of observers.
type Subject struct {
	mu        sync.Mutex
	observers []Observer
}

// Register adds o. Registering an observer that is already present is a no-op.
func (s *Subject) Register(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
}

// Remove drops o if registered.
func (s *Subject) Remove(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Observers returns a snapshot of the registered observers.
func (s *Subject) Observers() []Observer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

// Notify delivers ev to each observer in registration order.
func (s *Subject) Notify(ctx context.Context, kind EventKind, payload any) error {
	ev := Event{Kind: kind, Payload: payload}
	for _, o := range s.Observers() {
		if err := o.Update(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
