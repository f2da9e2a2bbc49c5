// Package historytest opens history stores for tests in other packages.
package historytest

import (
	"context"
	"testing"

	"calc-ledger/internal/history"
)

// Open opens a Store over an in-memory backend seeded with groups.
// Backups go to a per-test temp directory.
func Open(t testing.TB, groups ...history.Group) (*history.Store, *history.Memory) {
	t.Helper()
	mem := history.NewMemory(groups...)
	store, err := history.Open(context.Background(), mem, history.NewBackups(t.TempDir()))
	if err != nil {
		t.Fatalf("opening history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store, mem
}
