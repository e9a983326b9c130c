package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCollector_RecordDocument(t *testing.T) {
	c := NewCollector(zaptest.NewLogger(t))

	c.RecordDocument(10)
	c.RecordDocument(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.documentsTotal))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.tokensTotal))
}

func TestCollector_RecordHistogram(t *testing.T) {
	c := NewCollector(nil)

	c.RecordHistogram(2, 9, 4, 20*time.Millisecond)
	c.RecordHistogram(2, 1, 5, time.Millisecond)
	c.RecordHistogram(3, 7, 7, time.Millisecond)

	assert.Equal(t, 10.0, testutil.ToFloat64(c.ngramsObserved.WithLabelValues("2")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.ngramsObserved.WithLabelValues("3")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.distinctNgrams.WithLabelValues("2")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.countDuration))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a := NewCollector(nil)
	b := NewCollector(nil)
	a.RecordDocument(3)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.documentsTotal))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector(zaptest.NewLogger(t))
	c.RecordDocument(4)
	c.RecordHistogram(1, 4, 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "histongram.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "histongram_documents_total 1")
	assert.Contains(t, text, "histongram_tokens_total 4")
	assert.Contains(t, text, `histongram_ngrams_observed_total{n="1"} 4`)
	assert.Contains(t, text, `histongram_distinct_ngrams{n="1"} 3`)
}

func TestCollector_WriteTextfileBadPath(t *testing.T) {
	c := NewCollector(nil)
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	assert.Error(t, err)
}
