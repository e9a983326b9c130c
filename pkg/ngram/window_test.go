package ngram

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func collectWindows(wb *WindowBuffer[int], n int) [][]int {
	var out [][]int
	for w := range wb.Windows(n) {
		out = append(out, slices.Clone(w))
	}
	return out
}

func TestWindowBuffer_FirstInOverflow(t *testing.T) {
	wb, err := NewWindowBufferSize[int](3, 6)
	require.NoError(t, err)

	i := 0
	wb.fill(func() (int, bool) {
		i++
		return i, true
	})

	assert.Equal(t, 6, wb.firstInOverflow(3))
	assert.Equal(t, 5, wb.firstInOverflow(2))
	assert.Equal(t, 4, wb.firstInOverflow(1))

	wb.consume()
	assert.Equal(t, []int{5, 6}, wb.buffer)
	assert.Equal(t, 2, wb.firstInOverflow(3))
	assert.Equal(t, 2, wb.firstInOverflow(2))
	assert.Equal(t, 2, wb.firstInOverflow(1))
}

func TestWindowBuffer_Rounds(t *testing.T) {
	wb, err := NewWindowBufferSize[int](3, 6)
	require.NoError(t, err)

	next, stop := iter.Pull(slices.Values([]int{1, 2, 3, 4, 5, 6, 7, 8}))
	defer stop()
	refill := func() {
		wb.consume()
		wb.fill(next)
	}

	refill()
	assert.Equal(t, [][]int{{1}, {2}, {3}, {4}}, collectWindows(wb, 1))
	assert.Equal(t, [][]int{{1, 2, 3}, {2, 3, 4}, {3, 4, 5}, {4, 5, 6}}, collectWindows(wb, 3))

	refill()
	assert.Equal(t, [][]int{{5}, {6}, {7}, {8}}, collectWindows(wb, 1))
	assert.Equal(t, [][]int{{5, 6}, {6, 7}, {7, 8}}, collectWindows(wb, 2))
	assert.Equal(t, [][]int{{5, 6, 7}, {6, 7, 8}}, collectWindows(wb, 3))

	refill()
	assert.Empty(t, collectWindows(wb, 1))
	assert.Empty(t, collectWindows(wb, 2))
	assert.Empty(t, collectWindows(wb, 3))
}

func TestNewWindowBufferSize(t *testing.T) {
	_, err := NewWindowBufferSize[int](3, 5)
	assert.True(t, errors.Is(err, ErrBufferTooSmall))

	_, err = NewWindowBufferSize[int](0, 10)
	assert.True(t, errors.Is(err, ErrInvalidWindowSize))

	wb := NewWindowBuffer[int](0)
	assert.Equal(t, 1, wb.MaxLen())

	wb = NewWindowBuffer[int](4000)
	assert.Equal(t, 8000, wb.capacity)
}

func TestWindowBuffer_WindowsPanicsPastMaxLen(t *testing.T) {
	wb := NewWindowBuffer[int](2)
	assert.Panics(t, func() { wb.Windows(3) })
	assert.Panics(t, func() { wb.Windows(0) })
}

func TestWindowBuffer_IterateIsReusable(t *testing.T) {
	wb, _ := NewWindowBufferSize[int](2, 4)

	run := func() [][]int {
		var out [][]int
		wb.Iterate(slices.Values([]int{1, 2, 3, 4, 5}), func(wb *WindowBuffer[int]) {
			out = append(out, collectWindows(wb, 2)...)
		})
		return out
	}

	want := [][]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}}
	assert.Equal(t, want, run())
	assert.Equal(t, want, run())
}

func TestProperty_WindowBufferMatchesWindowingOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inputSize := rapid.IntRange(0, 127).Draw(rt, "inputSize")
		maxLen := rapid.IntRange(1, 127).Draw(rt, "maxLen")
		capacity := rapid.IntRange(0, 127).Draw(rt, "capacity")
		n := rapid.IntRange(1, 127).Draw(rt, "len")

		n = min(n, maxLen)
		capacity = max(2*maxLen, capacity)

		input := make([]int, inputSize)
		for i := range input {
			input[i] = i
		}

		want := [][]int{}
		for i := 0; i+n <= len(input); i++ {
			want = append(want, input[i:i+n])
		}

		wb, err := NewWindowBufferSize[int](maxLen, capacity)
		require.NoError(rt, err)

		got := [][]int{}
		wb.Iterate(slices.Values(input), func(wb *WindowBuffer[int]) {
			got = append(got, collectWindows(wb, n)...)
		})

		assert.Equal(rt, want, got)
	})
}
