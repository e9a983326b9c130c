// Package store persists named n-gram histogram snapshots.
package store

import (
	"context"
	"errors"
	"time"

	"histongram/pkg/ngram"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no snapshot has the requested name.
var ErrNotFound = errors.New("store: snapshot not found")

// Snapshot is a saved histogram of string tokens.
type Snapshot struct {
	ID        string
	Name      string
	N         int
	Tokenizer string
	CreatedAt time.Time
	Entries   []ngram.Entry[string]
}

// Summary describes a snapshot without its entries.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	N         int       `json:"n"`
	Tokenizer string    `json:"tokenizer"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Distinct  int       `json:"distinct"`
}

// Store persists snapshots by name.
type Store interface {
	// Save inserts or replaces the snapshot called snap.Name. An empty ID
	// is filled with a new UUID and a zero CreatedAt with the current time.
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, name string) (*Snapshot, error)
	// List returns summaries ordered by name.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, name string) error

	// Lifecycle
	Close() error
}

// FromHistogram captures h as a snapshot called name.
func FromHistogram(name, tokenizer string, h *ngram.Histogram[string]) *Snapshot {
	return &Snapshot{
		Name:      name,
		N:         h.N(),
		Tokenizer: tokenizer,
		Entries:   h.Sorted(),
	}
}

// Histogram rebuilds the histogram held by the snapshot.
func (s *Snapshot) Histogram() (*ngram.Histogram[string], error) {
	return ngram.FromEntries(s.N, s.Entries)
}

// Summary describes s.
func (s *Snapshot) Summary() Summary {
	total := 0
	for _, e := range s.Entries {
		total += e.Count
	}
	return Summary{
		ID:        s.ID,
		Name:      s.Name,
		N:         s.N,
		Tokenizer: s.Tokenizer,
		CreatedAt: s.CreatedAt,
		Total:     total,
		Distinct:  len(s.Entries),
	}
}

func prepare(snap *Snapshot) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
}
