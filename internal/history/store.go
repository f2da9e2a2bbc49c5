package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"calc-ledger/internal/observer"
)

// Store is the in-memory history mirrored to a Backend after every mutation.
// A mutation whose Save fails leaves the in-memory history untouched.
//
// Observers are notified after the change is persisted and after the store's
// lock is released, so they may read the store. An observer error is returned
// from the mutating call even though the change itself is already committed.
type Store struct {
	observer.Subject

	mu      sync.RWMutex
	backend Backend
	backups *Backups
	groups  []Group
	now     func() time.Time
}

// Open loads the history from backend.
func Open(ctx context.Context, backend Backend, backups *Backups) (*Store, error) {
	groups, err := backend.Load(ctx)
	if err != nil {
		return nil, storageError("load", "load history", err)
	}

	return &Store{
		backend: backend,
		backups: backups,
		groups:  groups,
		now:     time.Now,
	}, nil
}

// Len returns the number of groups.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups)
}

// List returns a snapshot of the history in chronological order.
func (s *Store) List() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGroups(s.groups)
}

// Get returns the group at 1-based index n.
func (s *Store) Get(n int) (Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := checkIndex("get", n, len(s.groups), "No previous calculations available"); err != nil {
		return Group{}, err
	}
	return s.groups[n-1].clone(), nil
}

// PreviousResult returns the result of the group at 1-based index n.
func (s *Store) PreviousResult(n int) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := checkIndex("previous_result", n, len(s.groups), "No previous calculations available"); err != nil {
		return 0, err
	}
	return s.groups[n-1].Result, nil
}

// LastResult returns the result of the most recent group.
func (s *Store) LastResult() (float64, error) {
	s.mu.RLock()
	n := len(s.groups)
	s.mu.RUnlock()
	return s.PreviousResult(n)
}

// Append adds g to the end of the history.
func (s *Store) Append(ctx context.Context, g Group) error {
	g = g.clone()
	if g.Timestamp.IsZero() {
		g.Timestamp = s.now()
	}
	if g.Steps == nil {
		g.Steps = []Step{}
	}

	s.mu.Lock()
	next := make([]Group, len(s.groups), len(s.groups)+1)
	copy(next, s.groups)
	next = append(next, g)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return storageError("append", "save calculation group", err)
	}
	s.mu.Unlock()

	return s.notify(ctx, observer.CalculationAdded, g.clone())
}

// Clear empties the history.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.commit(ctx, nil); err != nil {
		s.mu.Unlock()
		return storageError("clear", "start new history", err)
	}
	s.mu.Unlock()

	return s.notify(ctx, observer.HistoryCleared, nil)
}

// DeleteAt removes the group at 1-based index n.
func (s *Store) DeleteAt(ctx context.Context, n int) error {
	s.mu.Lock()
	if err := checkIndex("delete", n, len(s.groups), "No history to delete from"); err != nil {
		s.mu.Unlock()
		return err
	}

	removed := s.groups[n-1]
	next := make([]Group, 0, len(s.groups)-1)
	next = append(next, s.groups[:n-1]...)
	next = append(next, s.groups[n:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return storageError("delete", fmt.Sprintf("delete calculation %d", n), err)
	}
	s.mu.Unlock()

	return s.notify(ctx, observer.CalculationDeleted, DeletedEvent{Index: n, Group: removed.clone()})
}

// Backup writes the history to a new timestamped backup and returns its
// identifier.
func (s *Store) Backup(ctx context.Context) (string, error) {
	s.mu.RLock()
	groups := cloneGroups(s.groups)
	s.mu.RUnlock()

	if len(groups) == 0 {
		return "", &HistoryError{Op: "backup", Msg: "No history to save", Err: ErrEmpty}
	}

	id, err := s.backups.Write(groups)
	if err != nil {
		return "", storageError("backup", "save history", err)
	}

	return id, s.notify(ctx, observer.HistorySaved, id)
}

// Restore replaces the history with the backup named id and persists it as
// the primary history.
func (s *Store) Restore(ctx context.Context, id string) error {
	groups, err := s.backups.Read(id)
	if err != nil {
		return storageError("restore", "load history", err)
	}

	s.mu.Lock()
	if err := s.commit(ctx, groups); err != nil {
		s.mu.Unlock()
		return storageError("restore", "load history", err)
	}
	s.mu.Unlock()

	return s.notify(ctx, observer.HistoryLoaded, LoadedEvent{Backup: id, Count: len(groups)})
}

// Backups lists the available backup identifiers, oldest first.
func (s *Store) Backups() ([]string, error) {
	ids, err := s.backups.List()
	if err != nil {
		return nil, storageError("backups", "list backups", err)
	}
	return ids, nil
}

// Close writes the current history one last time and releases the backend.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(ctx, s.groups); err != nil {
		s.backend.Close()
		return storageError("close", "flush history", err)
	}
	return s.backend.Close()
}

// commit persists next and installs it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Group) error {
	if err := s.backend.Save(ctx, next); err != nil {
		return err
	}
	s.groups = next
	return nil
}

func (s *Store) notify(ctx context.Context, kind observer.EventKind, payload any) error {
	if err := s.Notify(ctx, kind, payload); err != nil {
		return fmt.Errorf("notifying %s: %w", kind, err)
	}
	return nil
}
