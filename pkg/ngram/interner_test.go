package ngram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterner(t *testing.T) {
	in := NewInterner[string]()

	assert.Equal(t, uint32(0), in.Intern("a"))
	assert.Equal(t, uint32(1), in.Intern("b"))
	assert.Equal(t, uint32(0), in.Intern("a"), "ids are stable")
	assert.Equal(t, 2, in.Len())

	id, ok := in.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), id)

	_, ok = in.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, 2, in.Len(), "Lookup never assigns")

	tok, ok := in.Token(1)
	assert.True(t, ok)
	assert.Equal(t, "b", tok)

	_, ok = in.Token(7)
	assert.False(t, ok)
}
