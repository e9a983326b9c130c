// Package metrics records counting statistics for a histongram run.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "histongram"

// Collector holds the run metrics on a registry of its own, so that several
// collectors can live in one process (tests, library callers).
type Collector struct {
	registry *prometheus.Registry

	documentsTotal prometheus.Counter
	tokensTotal    prometheus.Counter
	ngramsObserved *prometheus.CounterVec
	distinctNgrams *prometheus.GaugeVec
	countDuration  prometheus.Histogram

	logger *zap.Logger
}

// NewCollector creates a collector. A nil logger disables logging.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		documentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Total number of documents tokenized",
		}),
		tokensTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Total number of tokens read",
		}),
		ngramsObserved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ngrams_observed_total",
			Help:      "Total number of n-gram occurrences counted",
		}, []string{"n"}),
		distinctNgrams: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "distinct_ngrams",
			Help:      "Number of distinct n-grams in the last histogram",
		}, []string{"n"}),
		countDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "count_duration_seconds",
			Help:      "Time spent counting one window size across all documents",
			Buckets:   prometheus.DefBuckets,
		}),
		logger: logger.With(zap.String("component", "metrics")),
	}
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordDocument records one tokenized document.
func (c *Collector) RecordDocument(tokens int) {
	c.documentsTotal.Inc()
	c.tokensTotal.Add(float64(tokens))
}

// RecordHistogram records the outcome of counting one window size.
func (c *Collector) RecordHistogram(n, total, distinct int, duration time.Duration) {
	label := strconv.Itoa(n)
	c.ngramsObserved.WithLabelValues(label).Add(float64(total))
	c.distinctNgrams.WithLabelValues(label).Set(float64(distinct))
	c.countDuration.Observe(duration.Seconds())
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	c.logger.Debug("metrics written", zap.String("path", path))
	return nil
}
