package ngram

// Interner hands out dense uint32 ids for tokens. Ids start at 0 and are
// never reused. An Interner belongs to a single Histogram.
type Interner[T comparable] struct {
	ids    map[T]uint32
	tokens []T
}

// NewInterner creates an empty interner.
func NewInterner[T comparable]() *Interner[T] {
	return &Interner[T]{
		ids: make(map[T]uint32),
	}
}

// Intern returns the id for tok, assigning the next free id on first sight.
func (in *Interner[T]) Intern(tok T) uint32 {
	if id, ok := in.ids[tok]; ok {
		return id
	}
	id := uint32(len(in.tokens))
	in.ids[tok] = id
	in.tokens = append(in.tokens, tok)
	return id
}

// Lookup returns the id for tok without assigning one.
func (in *Interner[T]) Lookup(tok T) (uint32, bool) {
	id, ok := in.ids[tok]
	return id, ok
}

// Token returns the token that was given id.
func (in *Interner[T]) Token(id uint32) (T, bool) {
	if int(id) >= len(in.tokens) {
		var zero T
		return zero, false
	}
	return in.tokens[id], true
}

// Len returns the number of distinct tokens seen.
func (in *Interner[T]) Len() int {
	return len(in.tokens)
}
