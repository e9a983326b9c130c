package ngram

import (
	"fmt"
	"iter"
)

// defaultWindowCapacity is the buffer size, in tokens, used by
// NewWindowBuffer unless twice the window length is larger.
const defaultWindowCapacity = 1024

// WindowBuffer walks a long token stream through a bounded buffer while
// exposing windows of any length up to maxLen, as if the windows had been
// taken over the whole stream at once.
//
// After each refill the last maxLen-1 tokens of the previous round are kept
// at the front of the buffer, so windows spanning two rounds are produced
// exactly once.
type WindowBuffer[T any] struct {
	buffer   []T
	capacity int
	maxLen   int
}

// NewWindowBuffer creates a buffer for windows of up to maxLen tokens.
// maxLen values below 1 are treated as 1.
func NewWindowBuffer[T any](maxLen int) *WindowBuffer[T] {
	maxLen = max(maxLen, 1)
	wb, _ := NewWindowBufferSize[T](maxLen, max(defaultWindowCapacity, 2*maxLen))
	return wb
}

// NewWindowBufferSize creates a buffer holding capacity tokens. capacity
// must be at least 2*maxLen.
func NewWindowBufferSize[T any](maxLen, capacity int) (*WindowBuffer[T], error) {
	if maxLen < 1 {
		return nil, invalidWindow("NewWindowBufferSize", maxLen)
	}
	if capacity < 2*maxLen {
		return nil, WrapError("NewWindowBufferSize", fmt.Errorf("%w: capacity %d, max length %d", ErrBufferTooSmall, capacity, maxLen))
	}
	return &WindowBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
		maxLen:   maxLen,
	}, nil
}

// MaxLen returns the longest window the buffer can produce.
func (w *WindowBuffer[T]) MaxLen() int {
	return w.maxLen
}

// Iterate feeds seq through the buffer and calls fn once per refill. Inside
// fn, Windows yields the windows that start in the current round.
func (w *WindowBuffer[T]) Iterate(seq iter.Seq[T], fn func(*WindowBuffer[T])) {
	next, stop := iter.Pull(seq)
	defer stop()

	for {
		w.consume()
		w.fill(next)
		if len(w.buffer) == 0 {
			return
		}
		fn(w)
	}
}

// Windows yields every window of n tokens starting in the current round.
// The yielded slices alias the buffer and are only valid until the
// callback returns. Windows panics if n is outside [1, MaxLen()].
func (w *WindowBuffer[T]) Windows(n int) iter.Seq[[]T] {
	if n < 1 || n > w.maxLen {
		panic(fmt.Sprintf("ngram: window length %d outside [1, %d]", n, w.maxLen))
	}
	buf := w.buffer[:w.firstInOverflow(n)]
	return func(yield func([]T) bool) {
		for i := 0; i+n <= len(buf); i++ {
			if !yield(buf[i : i+n : i+n]) {
				return
			}
		}
	}
}

func (w *WindowBuffer[T]) fill(next func() (T, bool)) {
	for len(w.buffer) < w.capacity {
		v, ok := next()
		if !ok {
			return
		}
		w.buffer = append(w.buffer, v)
	}
}

// consume drops every token a window already started at, keeping the
// overflow at the front.
func (w *WindowBuffer[T]) consume() {
	w.buffer = append(w.buffer[:0], w.buffer[w.firstInOverflow(1):]...)
}

func (w *WindowBuffer[T]) firstInOverflow(forLen int) int {
	return min(w.capacity-w.maxLen+forLen, len(w.buffer))
}
