package ngram

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Option configures CountParallel.
type Option func(*options)

type options struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers caps the number of goroutines counting at once. Values below
// 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger used for per-stream debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	o.logger = o.logger.With(zap.String("component", "ngram"))
	return o
}

// Reduce merges histograms pairwise into a new histogram. The inputs are
// not modified and nil inputs are skipped. Because Merge is commutative and
// associative, the result equals merging the inputs in any order.
func Reduce[T comparable](hists ...*Histogram[T]) (*Histogram[T], error) {
	parts := make([]*Histogram[T], 0, len(hists))
	for _, h := range hists {
		if h != nil {
			parts = append(parts, h)
		}
	}
	if len(parts) == 0 {
		return nil, WrapError("Reduce", ErrNoHistograms)
	}
	for _, h := range parts[1:] {
		if h.n != parts[0].n {
			return nil, incompatible("Reduce", parts[0].n, h.n)
		}
	}

	// The first level copies the accumulating side so inputs stay untouched.
	level := make([]*Histogram[T], 0, (len(parts)+1)/2)
	for i := 0; i < len(parts); i += 2 {
		acc := parts[i].Clone()
		if i+1 < len(parts) {
			if err := acc.Merge(parts[i+1]); err != nil {
				return nil, err
			}
		}
		level = append(level, acc)
	}

	for len(level) > 1 {
		next := make([]*Histogram[T], 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				if err := level[i].Merge(level[i+1]); err != nil {
					return nil, err
				}
			}
			next = append(next, level[i])
		}
		level = next
	}
	return level[0], nil
}

// CountParallel counts each stream into a private histogram on its own
// goroutine and combines the results with a pairwise tree reduction.
// Windows never span two streams. The context is checked before each
// stream is counted.
func CountParallel[T comparable](ctx context.Context, n int, streams [][]T, opts ...Option) (*Histogram[T], error) {
	if n < 1 {
		return nil, invalidWindow("CountParallel", n)
	}
	o := newOptions(opts)
	if len(streams) == 0 {
		return New[T](n)
	}

	parts := make([]*Histogram[T], len(streams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, stream := range streams {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := FromTokens(n, stream)
			if err != nil {
				return err
			}
			parts[i] = h
			o.logger.Debug("stream counted",
				zap.Int("stream", i),
				zap.Int("tokens", len(stream)),
				zap.Int("distinct", h.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, WrapError("CountParallel", err)
	}

	for len(parts) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for i := 0; i+1 < len(parts); i += 2 {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return parts[i].Merge(parts[i+1])
			})
		}
		if err := g.Wait(); err != nil {
			return nil, WrapError("CountParallel", err)
		}

		next := make([]*Histogram[T], 0, (len(parts)+1)/2)
		for i := 0; i < len(parts); i += 2 {
			next = append(next, parts[i])
		}
		parts = next
	}

	o.logger.Debug("parallel count finished",
		zap.Int("n", n),
		zap.Int("streams", len(streams)),
		zap.Int("total", parts[0].Total()))
	return parts[0], nil
}
