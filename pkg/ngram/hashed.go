package ngram

import (
	"encoding/binary"
	"iter"

	spooky "github.com/dgryski/go-spooky"
)

// Hashed counts string n-grams by a 64-bit fingerprint of the window
// instead of the tokens themselves. Memory per n-gram is constant, at the
// price of possible collisions and of not being able to list the n-grams.
type Hashed struct {
	n      int
	counts map[uint64]int
	total  int
	buf    []byte
}

// NewHashed creates an empty fingerprint counter for windows of n tokens.
func NewHashed(n int) (*Hashed, error) {
	if n < 1 {
		return nil, invalidWindow("NewHashed", n)
	}
	return &Hashed{
		n:      n,
		counts: make(map[uint64]int),
	}, nil
}

// N returns the window size.
func (h *Hashed) N() int {
	return h.n
}

// Count adds one observation per window of n tokens.
func (h *Hashed) Count(tokens []string) {
	for i := 0; i+h.n <= len(tokens); i++ {
		h.buf = appendWindow(h.buf[:0], tokens[i:i+h.n])
		h.counts[spooky.Hash64(h.buf)]++
		h.total++
	}
}

// Get returns the count recorded for gram's fingerprint.
func (h *Hashed) Get(gram []string) int {
	if len(gram) != h.n {
		return 0
	}
	return h.counts[Fingerprint(gram)]
}

// Merge adds other's counts to h. Merging nil is a no-op.
func (h *Hashed) Merge(other *Hashed) error {
	if other == nil {
		return nil
	}
	if other.n != h.n {
		return incompatible("Merge", h.n, other.n)
	}
	if other == h {
		for fp := range h.counts {
			h.counts[fp] *= 2
		}
		h.total *= 2
		return nil
	}
	for fp, c := range other.counts {
		h.counts[fp] += c
	}
	h.total += other.total
	return nil
}

// Total returns the number of observations.
func (h *Hashed) Total() int {
	return h.total
}

// Len returns the number of distinct fingerprints.
func (h *Hashed) Len() int {
	return len(h.counts)
}

// All yields every fingerprint with its count.
func (h *Hashed) All() iter.Seq2[uint64, int] {
	return func(yield func(uint64, int) bool) {
		for fp, c := range h.counts {
			if !yield(fp, c) {
				return
			}
		}
	}
}

// Fingerprint returns the SpookyHash of gram. Each token is length-prefixed
// so ("ab", "c") and ("a", "bc") hash differently.
func Fingerprint(gram []string) uint64 {
	return spooky.Hash64(appendWindow(nil, gram))
}

func appendWindow(b []byte, gram []string) []byte {
	for _, tok := range gram {
		b = binary.AppendUvarint(b, uint64(len(tok)))
		b = append(b, tok...)
	}
	return b
}
