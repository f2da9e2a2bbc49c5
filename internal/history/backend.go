package history

import "context"

// Backend persists full snapshots of the history. Save replaces whatever was
// stored before; it never appends.
type Backend interface {
	Load(ctx context.Context) ([]Group, error)
	Save(ctx context.Context, groups []Group) error
	Close() error
}

// Memory is an in-memory backend for tests.
type Memory struct {
	groups []Group
	saves  int
	err    error
}

func NewMemory(groups ...Group) *Memory {
	return &Memory{groups: cloneGroups(groups)}
}

func (m *Memory) Load(ctx context.Context) ([]Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	return cloneGroups(m.groups), nil
}

func (m *Memory) Save(ctx context.Context, groups []Group) error {
	if m.err != nil {
		return m.err
	}
	m.groups = cloneGroups(groups)
	m.saves++
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Fail makes every later Load and Save return err; nil clears it.
func (m *Memory) Fail(err error) {
	m.err = err
}

// Saves reports how many snapshots were written.
func (m *Memory) Saves() int {
	return m.saves
}

// Snapshot returns the last saved history.
func (m *Memory) Snapshot() []Group {
	return cloneGroups(m.groups)
}
