package ngram

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMulti(t *testing.T) {
	t.Run("requires a length", func(t *testing.T) {
		_, err := NewMulti[string]()
		assert.True(t, errors.Is(err, ErrInvalidWindowSize))
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := NewMulti[string](1, 0)
		assert.True(t, errors.Is(err, ErrInvalidWindowSize))
	})

	t.Run("sorts and collapses duplicates", func(t *testing.T) {
		m, err := NewMulti[string](3, 1, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, m.Lengths())

		_, ok := m.Histogram(4)
		assert.False(t, ok)
	})
}

func TestMulti_Count(t *testing.T) {
	tokens := []string{"a", "b", "a", "b", "a"}

	m, err := NewMulti[string](1, 2, 3)
	require.NoError(t, err)
	m.Count(tokens)

	for _, n := range m.Lengths() {
		want, _ := FromTokens(n, tokens)
		got, ok := m.Histogram(n)
		require.True(t, ok)
		assert.True(t, want.Equal(got), "n=%d", n)
	}
	assert.Equal(t, 5+4+3, m.Total())
}

func TestMulti_CountSeqSpansRefills(t *testing.T) {
	// Long enough to need several refills of the default buffer.
	tokens := make([]string, 5000)
	for i := range tokens {
		tokens[i] = fmt.Sprint(i % 13)
	}

	seq, err := NewMulti[string](1, 2, 5)
	require.NoError(t, err)
	seq.CountSeq(slices.Values(tokens))

	whole, _ := NewMulti[string](1, 2, 5)
	whole.Count(tokens)

	for _, n := range whole.Lengths() {
		want, _ := whole.Histogram(n)
		got, _ := seq.Histogram(n)
		assert.True(t, want.Equal(got), "n=%d", n)
		assert.Equal(t, len(tokens)-n+1, got.Total())
	}
}

func TestMulti_Merge(t *testing.T) {
	a, _ := NewMulti[string](1, 2)
	a.Count([]string{"a", "b"})
	b, _ := NewMulti[string](1, 2)
	b.Count([]string{"a", "b"})

	require.NoError(t, a.Merge(b))
	h, _ := a.Histogram(2)
	assert.Equal(t, 2, h.Get([]string{"a", "b"}))

	other, _ := NewMulti[string](1, 3)
	err := a.Merge(other)
	assert.True(t, errors.Is(err, ErrIncompatibleWindowSize))

	require.NoError(t, a.Merge(nil))
	assert.Equal(t, 2, h.Get([]string{"a", "b"}))
}
