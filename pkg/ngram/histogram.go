package ngram

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Ngram is an ordered run of n tokens. Every Ngram returned by this package
// is a fresh copy owned by the caller.
type Ngram[T comparable] []T

// Equal reports whether both n-grams hold the same tokens in the same order.
func (g Ngram[T]) Equal(other Ngram[T]) bool {
	return slices.Equal(g, other)
}

func (g Ngram[T]) String() string {
	parts := make([]string, len(g))
	for i, tok := range g {
		parts[i] = fmt.Sprint(tok)
	}
	return strings.Join(parts, " ")
}

// Entry pairs an n-gram with its count.
type Entry[T comparable] struct {
	Ngram Ngram[T] `json:"ngram"`
	Count int      `json:"count"`
}

// Histogram counts the contiguous windows of n tokens seen in the token
// sequences passed to Count.
//
// Create histograms with New, FromTokens or FromEntries. The zero value has
// no window size: Get, Len and Total report it as empty, and Count, CountSeq
// and Add panic.
//
// A Histogram is not safe for concurrent mutation. Build one histogram per
// goroutine and combine them with Merge or Reduce.
type Histogram[T comparable] struct {
	n        int
	interner *Interner[T]

	// counts is keyed by the window's interned ids packed little-endian,
	// four bytes per token. Every value is >= 1.
	counts map[string]int
	total  int

	scratch []byte
	ids     []uint32
}

// New creates an empty histogram for windows of n tokens.
func New[T comparable](n int) (*Histogram[T], error) {
	if n < 1 {
		return nil, invalidWindow("New", n)
	}
	return &Histogram[T]{
		n:        n,
		interner: NewInterner[T](),
		counts:   make(map[string]int),
		scratch:  make([]byte, 4*n),
		ids:      make([]uint32, n),
	}, nil
}

// FromTokens creates a histogram for windows of n tokens and counts tokens.
func FromTokens[T comparable](n int, tokens []T) (*Histogram[T], error) {
	h, err := New[T](n)
	if err != nil {
		return nil, err
	}
	h.Count(tokens)
	return h, nil
}

// N returns the window size.
func (h *Histogram[T]) N() int {
	return h.n
}

// Count slides a window of n tokens over tokens with stride 1 and adds one
// observation per window. Sequences shorter than n add nothing.
func (h *Histogram[T]) Count(tokens []T) {
	h.mustInit()
	if len(tokens) < h.n {
		return
	}

	ids := make([]uint32, len(tokens))
	for i, tok := range tokens {
		ids[i] = h.interner.Intern(tok)
	}
	for i := 0; i+h.n <= len(ids); i++ {
		h.observe(ids[i:i+h.n], 1)
	}
}

// CountSeq counts the windows of a token stream without collecting it first.
// The result is the same as calling Count on the whole sequence.
func (h *Histogram[T]) CountSeq(seq iter.Seq[T]) {
	h.mustInit()
	NewWindowBuffer[T](h.n).Iterate(seq, func(wb *WindowBuffer[T]) {
		for window := range wb.Windows(h.n) {
			h.observeTokens(window, 1)
		}
	})
}

// Add records a single occurrence of gram.
func (h *Histogram[T]) Add(gram []T) error {
	h.mustInit()
	if len(gram) != h.n {
		return WrapError("Add", fmt.Errorf("%w: got %d tokens, want %d", ErrNgramLength, len(gram), h.n))
	}
	h.observeTokens(gram, 1)
	return nil
}

// Get returns how often gram was observed, or 0.
func (h *Histogram[T]) Get(gram []T) int {
	if len(gram) != h.n {
		return 0
	}

	var stack [64]byte
	key := stack[:0]
	for _, tok := range gram {
		id, ok := h.interner.Lookup(tok)
		if !ok {
			return 0
		}
		key = appendID(key, id)
	}
	return h.counts[string(key)]
}

// Rel returns the share of all observations that matched gram. An empty
// histogram yields 0 for every n-gram.
func (h *Histogram[T]) Rel(gram []T) float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.Get(gram)) / float64(h.total)
}

// All yields every n-gram with its count. The order is unspecified. The
// sequence may be ranged over any number of times; it must not be used
// while the histogram is being mutated.
func (h *Histogram[T]) All() iter.Seq2[Ngram[T], int] {
	return func(yield func(Ngram[T], int) bool) {
		for key, c := range h.counts {
			if !yield(h.decode(key), c) {
				return
			}
		}
	}
}

// AllRel yields every n-gram with its share of the total.
func (h *Histogram[T]) AllRel() iter.Seq2[Ngram[T], float64] {
	return func(yield func(Ngram[T], float64) bool) {
		total := float64(h.total)
		for key, c := range h.counts {
			if !yield(h.decode(key), float64(c)/total) {
				return
			}
		}
	}
}

// Merge adds every count of other to h. Both histograms must share the
// same window size. other is left untouched unless it is h itself, in
// which case every count doubles. Merging nil is a no-op.
func (h *Histogram[T]) Merge(other *Histogram[T]) error {
	if other == nil {
		return nil
	}
	if other.n != h.n {
		return incompatible("Merge", h.n, other.n)
	}

	if other == h {
		for key := range h.counts {
			h.counts[key] *= 2
		}
		h.total *= 2
		return nil
	}

	for key, c := range other.counts {
		for i := range h.ids {
			tok := other.interner.tokens[idAt(key, i)]
			h.ids[i] = h.interner.Intern(tok)
		}
		h.observe(h.ids, c)
	}
	return nil
}

// Total returns the number of observations, the sum of all counts.
func (h *Histogram[T]) Total() int {
	return h.total
}

// Len returns the number of distinct n-grams.
func (h *Histogram[T]) Len() int {
	return len(h.counts)
}

// Entries returns every n-gram with its count in unspecified order.
func (h *Histogram[T]) Entries() []Entry[T] {
	entries := make([]Entry[T], 0, len(h.counts))
	for gram, c := range h.All() {
		entries = append(entries, Entry[T]{Ngram: gram, Count: c})
	}
	return entries
}

// Sorted returns every n-gram ordered by descending count. Equal counts are
// ordered by first appearance of their tokens, so the result is stable for
// histograms built from the same input.
func (h *Histogram[T]) Sorted() []Entry[T] {
	keys := slices.Collect(maps.Keys(h.counts))
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(h.counts[b], h.counts[a]); c != 0 {
			return c
		}
		for i := range h.n {
			if c := cmp.Compare(idAt(a, i), idAt(b, i)); c != 0 {
				return c
			}
		}
		return 0
	})

	entries := make([]Entry[T], len(keys))
	for i, key := range keys {
		entries[i] = Entry[T]{Ngram: h.decode(key), Count: h.counts[key]}
	}
	return entries
}

// Top returns the k most frequent n-grams. k <= 0 returns all of them.
func (h *Histogram[T]) Top(k int) []Entry[T] {
	entries := h.Sorted()
	if k > 0 && k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// Clone returns an independent copy of h.
func (h *Histogram[T]) Clone() *Histogram[T] {
	in := &Interner[T]{
		ids:    maps.Clone(h.interner.ids),
		tokens: slices.Clone(h.interner.tokens),
	}
	return &Histogram[T]{
		n:        h.n,
		interner: in,
		counts:   maps.Clone(h.counts),
		total:    h.total,
		scratch:  make([]byte, 4*h.n),
		ids:      make([]uint32, h.n),
	}
}

// Equal reports whether both histograms have the same window size and the
// same count for every n-gram.
func (h *Histogram[T]) Equal(other *Histogram[T]) bool {
	if h == other {
		return true
	}
	if other == nil || h.n != other.n || h.total != other.total || len(h.counts) != len(other.counts) {
		return false
	}
	for gram, c := range h.All() {
		if other.Get(gram) != c {
			return false
		}
	}
	return true
}

// FromEntries rebuilds a histogram from exported entries. Repeated n-grams
// are summed.
func FromEntries[T comparable](n int, entries []Entry[T]) (*Histogram[T], error) {
	h, err := New[T](n)
	if err != nil {
		return nil, WrapError("FromEntries", err)
	}
	for i, e := range entries {
		if len(e.Ngram) != n {
			return nil, WrapError("FromEntries", fmt.Errorf("%w: entry %d has %d tokens, want %d", ErrNgramLength, i, len(e.Ngram), n))
		}
		if e.Count < 1 {
			return nil, WrapError("FromEntries", fmt.Errorf("%w: entry %d has count %d", ErrInvalidCount, i, e.Count))
		}
		h.observeTokens(e.Ngram, e.Count)
	}
	return h, nil
}

// errUninitialized is the panic value for counting into a zero Histogram.
const errUninitialized = "ngram: Histogram used without New"

func (h *Histogram[T]) mustInit() {
	if h.interner == nil {
		panic(errUninitialized)
	}
}

func (h *Histogram[T]) observeTokens(window []T, c int) {
	for i, tok := range window {
		h.ids[i] = h.interner.Intern(tok)
	}
	h.observe(h.ids, c)
}

func (h *Histogram[T]) observe(ids []uint32, c int) {
	key := h.scratch[:0]
	for _, id := range ids {
		key = appendID(key, id)
	}
	h.counts[string(key)] += c
	h.total += c
}

func (h *Histogram[T]) decode(key string) Ngram[T] {
	gram := make(Ngram[T], h.n)
	for i := range gram {
		gram[i] = h.interner.tokens[idAt(key, i)]
	}
	return gram
}

func appendID(b []byte, id uint32) []byte {
	return append(b, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
}

func idAt(key string, i int) uint32 {
	j := 4 * i
	return uint32(key[j]) | uint32(key[j+1])<<8 | uint32(key[j+2])<<16 | uint32(key[j+3])<<24
}
