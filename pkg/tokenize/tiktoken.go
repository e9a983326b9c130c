package tokenize

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is given.
const DefaultEncoding = "cl100k_base"

// Tiktoken splits text into the BPE pieces of an OpenAI encoding. The
// encoding is loaded on first use, which may download its ranks file.
type Tiktoken struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
}

// NewTiktoken creates a tokenizer for encoding, or DefaultEncoding when
// encoding is empty.
func NewTiktoken(encoding string) *Tiktoken {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Tiktoken{encoding: encoding}
}

func (t *Tiktoken) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// Tokenize returns the decoded text of every BPE token, so joining the
// tokens reproduces text.
func (t *Tiktoken) Tokenize(text string) ([]string, error) {
	ids, err := t.Encode(text)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = t.enc.Decode([]int{id})
	}
	return tokens, nil
}

// Encode returns the raw token ids, for counting n-grams over ints.
func (t *Tiktoken) Encode(text string) ([]int, error) {
	if err := t.init(); err != nil {
		return nil, err
	}
	return t.enc.Encode(text, nil, nil), nil
}

func (t *Tiktoken) Name() string {
	return "tiktoken:" + t.encoding
}
