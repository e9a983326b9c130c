package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"histongram/pkg/ngram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verify interface compliance
var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func bigrams(t *testing.T) *ngram.Histogram[string] {
	t.Helper()
	h, err := ngram.FromTokens(2, []string{"a", "b", "a", "b", "a", "c"})
	require.NoError(t, err)
	return h
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			h := bigrams(t)
			snap := FromHistogram("corpus", "words", h)
			require.NoError(t, s.Save(ctx, snap))
			assert.NotEmpty(t, snap.ID, "Save should assign an ID")
			assert.False(t, snap.CreatedAt.IsZero())

			loaded, err := s.Load(ctx, "corpus")
			require.NoError(t, err)
			assert.Equal(t, snap.ID, loaded.ID)
			assert.Equal(t, 2, loaded.N)
			assert.Equal(t, "words", loaded.Tokenizer)
			assert.WithinDuration(t, snap.CreatedAt, loaded.CreatedAt, time.Millisecond)

			back, err := loaded.Histogram()
			require.NoError(t, err)
			assert.True(t, h.Equal(back))
			assert.Equal(t, 2, loaded.Entries[0].Count, "entries ordered by count")
		})
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, FromHistogram("corpus", "words", bigrams(t))))

			unigrams, _ := ngram.FromTokens(1, []string{"z"})
			require.NoError(t, s.Save(ctx, FromHistogram("corpus", "chars", unigrams)))

			loaded, err := s.Load(ctx, "corpus")
			require.NoError(t, err)
			assert.Equal(t, 1, loaded.N)
			assert.Equal(t, "chars", loaded.Tokenizer)
			require.Len(t, loaded.Entries, 1)
			assert.Equal(t, ngram.Ngram[string]{"z"}, loaded.Entries[0].Ngram)

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			unigrams, _ := ngram.FromTokens(1, []string{"x", "x", "y"})
			require.NoError(t, s.Save(ctx, FromHistogram("zeta", "words", bigrams(t))))
			require.NoError(t, s.Save(ctx, FromHistogram("alpha", "chars", unigrams)))

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "alpha", list[0].Name)
			assert.Equal(t, 3, list[0].Total)
			assert.Equal(t, 2, list[0].Distinct)
			assert.Equal(t, "zeta", list[1].Name)
			assert.Equal(t, 5, list[1].Total)
			assert.Equal(t, 3, list[1].Distinct)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, FromHistogram("corpus", "words", bigrams(t))))
			require.NoError(t, s.Delete(ctx, "corpus"))

			_, err := s.Load(ctx, "corpus")
			assert.True(t, errors.Is(err, ErrNotFound))

			err = s.Delete(ctx, "corpus")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "nope")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	snap := FromHistogram("corpus", "words", bigrams(t))
	require.NoError(t, m.Save(ctx, snap))

	snap.Entries[0].Ngram[0] = "mutated"
	loaded, _ := m.Load(ctx, "corpus")
	loaded.Entries[0].Count = 99

	again, _ := m.Load(ctx, "corpus")
	assert.NotEqual(t, "mutated", again.Entries[0].Ngram[0])
	assert.NotEqual(t, 99, again.Entries[0].Count)
}

func TestSQLite_Persistence(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Save data
	s1, err := NewSQLite(dbPath)
	require.NoError(t, err)
	assert.Equal(t, dbPath, s1.Path())
	require.NoError(t, s1.Save(ctx, FromHistogram("corpus", "words", bigrams(t))))
	require.NoError(t, s1.Close())

	// Reopen and verify
	s2, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.Load(ctx, "corpus")
	require.NoError(t, err)
	back, err := loaded.Histogram()
	require.NoError(t, err)
	assert.True(t, bigrams(t).Equal(back))
}
