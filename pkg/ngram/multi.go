package ngram

import (
	"fmt"
	"iter"
	"slices"
)

// Multi counts several window sizes over the same token streams in a
// single pass.
type Multi[T comparable] struct {
	lengths []int
	hists   map[int]*Histogram[T]
}

// NewMulti creates one histogram per distinct window size. At least one
// size is required and every size must be at least 1.
func NewMulti[T comparable](lengths ...int) (*Multi[T], error) {
	if len(lengths) == 0 {
		return nil, invalidWindow("NewMulti", 0)
	}

	m := &Multi[T]{hists: make(map[int]*Histogram[T], len(lengths))}
	for _, n := range lengths {
		if _, ok := m.hists[n]; ok {
			continue
		}
		h, err := New[T](n)
		if err != nil {
			return nil, WrapError("NewMulti", err)
		}
		m.hists[n] = h
		m.lengths = append(m.lengths, n)
	}
	slices.Sort(m.lengths)
	return m, nil
}

// Lengths returns the window sizes in ascending order.
func (m *Multi[T]) Lengths() []int {
	return slices.Clone(m.lengths)
}

// Histogram returns the histogram for window size n.
func (m *Multi[T]) Histogram(n int) (*Histogram[T], bool) {
	h, ok := m.hists[n]
	return h, ok
}

// Count adds tokens to every histogram.
func (m *Multi[T]) Count(tokens []T) {
	for _, n := range m.lengths {
		m.hists[n].Count(tokens)
	}
}

// CountSeq adds a token stream to every histogram, reading it only once.
func (m *Multi[T]) CountSeq(seq iter.Seq[T]) {
	longest := m.lengths[len(m.lengths)-1]
	NewWindowBuffer[T](longest).Iterate(seq, func(wb *WindowBuffer[T]) {
		for _, n := range m.lengths {
			h := m.hists[n]
			for window := range wb.Windows(n) {
				h.observeTokens(window, 1)
			}
		}
	})
}

// Merge adds other's counts. Both must track the same set of window sizes.
// Merging nil is a no-op.
func (m *Multi[T]) Merge(other *Multi[T]) error {
	if other == nil {
		return nil
	}
	if !slices.Equal(m.lengths, other.lengths) {
		return WrapError("Merge", fmt.Errorf("%w: %v and %v", ErrIncompatibleWindowSize, m.lengths, other.lengths))
	}
	for _, n := range m.lengths {
		if err := m.hists[n].Merge(other.hists[n]); err != nil {
			return err
		}
	}
	return nil
}

// Total returns the observations summed over all window sizes.
func (m *Multi[T]) Total() int {
	total := 0
	for _, h := range m.hists {
		total += h.Total()
	}
	return total
}
