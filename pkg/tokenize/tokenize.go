// Package tokenize turns text into token sequences for n-gram counting.
//
// Token boundaries are always the caller's choice: pick a Tokenizer by name
// with New, or use one of the concrete types directly.
package tokenize

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTokenizer is returned by New for names it does not recognise.
var ErrUnknownTokenizer = errors.New("tokenize: unknown tokenizer")

// Tokenizer splits text into tokens.
type Tokenizer interface {
	// Tokenize returns the tokens of text in order.
	Tokenize(text string) ([]string, error)

	// Name identifies the tokenizer, e.g. in stored snapshots.
	Name() string
}

// Names lists the tokenizer names accepted by New.
func Names() []string {
	return []string{"words", "chars", "lines", "tiktoken"}
}

// New returns the tokenizer registered under name. "tiktoken" may carry an
// encoding suffix such as "tiktoken:o200k_base". When html is set, markup
// is stripped before tokenizing.
func New(name string, html bool) (Tokenizer, error) {
	var t Tokenizer
	base, arg, _ := strings.Cut(name, ":")
	switch base {
	case "words":
		t = Words{}
	case "chars":
		t = Chars{}
	case "lines":
		t = Lines{}
	case "tiktoken":
		t = NewTiktoken(arg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTokenizer, name)
	}
	if html {
		t = HTML{Inner: t}
	}
	return t, nil
}

// Words splits on runs of Unicode white space.
type Words struct{}

func (Words) Tokenize(text string) ([]string, error) {
	return strings.Fields(text), nil
}

func (Words) Name() string { return "words" }

// Chars emits one token per rune.
type Chars struct{}

func (Chars) Tokenize(text string) ([]string, error) {
	tokens := make([]string, 0, len(text))
	for _, r := range text {
		tokens = append(tokens, string(r))
	}
	return tokens, nil
}

func (Chars) Name() string { return "chars" }

// Lines emits one token per non-blank line, with surrounding white space
// trimmed.
type Lines struct{}

func (Lines) Tokenize(text string) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			tokens = append(tokens, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to split lines: %w", err)
	}
	return tokens, nil
}

func (Lines) Name() string { return "lines" }
