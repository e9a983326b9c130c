package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Memory is an in-memory storage implementation.
type Memory struct {
	snapshots map[string]*Snapshot
	mu        sync.RWMutex
}

// NewMemory creates a new in-memory storage.
func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]*Snapshot),
	}
}

// Save stores a copy of snap.
func (m *Memory) Save(ctx context.Context, snap *Snapshot) error {
	prepare(snap)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.Name] = clone(snap)
	return nil
}

// Load returns a copy of the named snapshot.
func (m *Memory) Load(ctx context.Context, name string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return clone(snap), nil
}

// List returns all snapshot summaries ordered by name.
func (m *Memory) List(ctx context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Summary, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		result = append(result, snap.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Delete removes the named snapshot.
func (m *Memory) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.snapshots, name)
	return nil
}

// Close is a no-op for memory storage.
func (m *Memory) Close() error {
	return nil
}

func clone(snap *Snapshot) *Snapshot {
	c := *snap
	c.Entries = slices.Clone(snap.Entries)
	for i := range c.Entries {
		c.Entries[i].Ngram = slices.Clone(c.Entries[i].Ngram)
	}
	return &c
}
