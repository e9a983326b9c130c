package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"histongram/internal/store"
	"histongram/pkg/ngram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []ngram.Entry[string] {
	return []ngram.Entry[string]{
		{Ngram: ngram.Ngram[string]{"the", "cat"}, Count: 1200},
		{Ngram: ngram.Ngram[string]{"a", " "}, Count: 3},
	}
}

func TestFormatNgram(t *testing.T) {
	tests := []struct {
		tokens []string
		want   string
	}{
		{[]string{"word"}, `"word"`},
		{[]string{"a", "b"}, `"a" "b"`},
		{[]string{" ", ""}, `" " ""`},
		{[]string{"tab\there"}, `"tab\there"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNgram(tt.tokens))
	}
}

func TestShare(t *testing.T) {
	assert.Equal(t, "50.00%", Share(1, 2))
	assert.Equal(t, "0.00%", Share(0, 0))
	assert.Equal(t, "33.33%", Share(1, 3))
}

func TestTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample(), 1203, 2, Options{Plain: true}))
	assert.Equal(t, "\"the\" \"cat\": 1200\n\"a\" \" \": 3\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample(), 1203, 2, Options{Title: "bigrams"}))

	out := buf.String()
	assert.Contains(t, out, "bigrams")
	assert.Contains(t, out, "N-GRAM")
	assert.Contains(t, out, `"the" "cat"`)
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "99.75%")
	assert.Contains(t, out, "1,203 n-grams, 2 distinct")
	assert.Less(t, strings.Index(out, `"the"`), strings.Index(out, `"a"`))
}

func TestTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, nil, 0, 0, Options{}))
	assert.Contains(t, buf.String(), "0 n-grams, 0 distinct")
}

func TestTable_TopCutsRowsNotFooter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample()[:1], 1203, 40, Options{}))

	out := buf.String()
	assert.Contains(t, out, `"the" "cat"`)
	assert.NotContains(t, out, `"a" " "`)
	assert.Contains(t, out, "1,203 n-grams, 40 distinct")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, 2, 1203, 5, sample()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.N)
	assert.Equal(t, 1203, doc.Total)
	assert.Equal(t, 5, doc.Distinct)
	assert.Equal(t, sample(), doc.Entries)
}

func TestJSON_NilEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, 1, 0, 0, nil))
	assert.Contains(t, buf.String(), `"entries": []`)
}

func TestSnapshots(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshots(&buf, []store.Summary{
		{Name: "novels", N: 2, Tokenizer: "words", Total: 12000, Distinct: 800, CreatedAt: time.Now()},
	}))

	out := buf.String()
	assert.Contains(t, out, "novels")
	assert.Contains(t, out, "12,000")
	assert.Contains(t, out, "TOKENIZER")
}

func TestSnapshots_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshots(&buf, nil))
	assert.Equal(t, "no snapshots\n", buf.String())
}
