package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"histongram/internal/metrics"
	"histongram/internal/report"
	"histongram/internal/store"
	"histongram/pkg/ngram"
	"histongram/pkg/tokenize"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type countOptions struct {
	lengths     []int
	tokenizer   string
	html        bool
	top         int
	print       bool
	plain       bool
	json        bool
	save        string
	hashed      bool
	workers     int
	metricsFile string
}

func countCmd(a *app) *cobra.Command {
	var opts countOptions

	cmd := &cobra.Command{
		Use:   "count [files...]",
		Short: "Count n-grams in files or standard input",
		Long: `Count n-grams in each file (or standard input when no file or "-" is
given). Each file is one token stream: n-grams never span two files.

Without --print or --json only a one-line summary per window size is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve(cmd, a)
			return a.runCount(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().IntSliceVarP(&opts.lengths, "n", "n", nil, "n-gram length, repeatable (default from config)")
	cmd.Flags().StringVarP(&opts.tokenizer, "tokenizer", "t", "", "tokenizer: "+fmt.Sprint(tokenize.Names())+" or tiktoken:<encoding>")
	cmd.Flags().BoolVar(&opts.html, "html", false, "extract text from HTML before tokenizing")
	cmd.Flags().IntVar(&opts.top, "top", 0, "number of n-grams to print, 0 for all (default from config)")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the most frequent n-grams")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print one quoted-tokens: count line per n-gram instead of a table")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the most frequent n-grams as JSON")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the histogram as a named snapshot")
	cmd.Flags().BoolVar(&opts.hashed, "hashed", false, "count 64-bit fingerprints only; reports totals and distinct counts")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel counting workers, 0 for GOMAXPROCS")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	return cmd
}

// resolve fills options the user did not set from the configuration.
func (o *countOptions) resolve(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	if !flags.Changed("n") {
		o.lengths = a.cfg.Lengths
	}
	if !flags.Changed("tokenizer") {
		o.tokenizer = a.cfg.Tokenizer
	}
	if !flags.Changed("html") {
		o.html = a.cfg.HTML
	}
	if !flags.Changed("top") {
		o.top = a.cfg.Top
	}
	if !flags.Changed("workers") {
		o.workers = a.cfg.Workers
	}
	if !flags.Changed("metrics-file") {
		o.metricsFile = a.cfg.MetricsFile
	}
	if o.plain {
		o.print = true
	}

	o.lengths = slices.Clone(o.lengths)
	slices.Sort(o.lengths)
	o.lengths = slices.Compact(o.lengths)
}

func (a *app) runCount(ctx context.Context, args []string, opts countOptions) error {
	tok, err := tokenize.New(opts.tokenizer, opts.html)
	if err != nil {
		return err
	}
	if len(opts.lengths) == 0 {
		return fmt.Errorf("no n-gram length given")
	}
	for _, n := range opts.lengths {
		if n < 1 {
			return fmt.Errorf("invalid n-gram length %d", n)
		}
	}

	if opts.hashed && (opts.print || opts.json || opts.save != "") {
		return fmt.Errorf("--hashed cannot be combined with --print, --plain, --json or --save")
	}

	collector := metrics.NewCollector(a.logger)

	streams, err := a.readStreams(args, tok, collector)
	if err != nil {
		return err
	}

	if opts.hashed {
		if err := a.countHashed(streams, opts.lengths, collector); err != nil {
			return err
		}
		return a.writeMetrics(collector, opts.metricsFile)
	}

	var st store.Store
	if opts.save != "" {
		if st, err = a.openStore(); err != nil {
			return err
		}
		defer st.Close()
	}

	for _, n := range opts.lengths {
		start := time.Now()
		h, err := ngram.CountParallel(ctx, n, streams,
			ngram.WithWorkers(opts.workers),
			ngram.WithLogger(a.logger))
		if err != nil {
			return fmt.Errorf("counting %d-grams: %w", n, err)
		}
		elapsed := time.Since(start)
		collector.RecordHistogram(n, h.Total(), h.Len(), elapsed)

		a.logger.Info("counted n-grams",
			zap.Int("n", n),
			zap.Int("documents", len(streams)),
			zap.Int("total", h.Total()),
			zap.Int("distinct", h.Len()),
			zap.Duration("elapsed", elapsed))

		if err := a.writeHistogram(h, opts); err != nil {
			return err
		}

		if st != nil {
			name := snapshotName(opts.save, n, len(opts.lengths))
			snap := store.FromHistogram(name, tok.Name(), h)
			if err := st.Save(ctx, snap); err != nil {
				return fmt.Errorf("failed to save snapshot %s: %w", name, err)
			}
			a.logger.Info("snapshot saved", zap.String("name", name), zap.String("id", snap.ID))
		}
	}

	return a.writeMetrics(collector, opts.metricsFile)
}

// countHashed counts fingerprints sequentially; the n-grams themselves are
// never kept.
func (a *app) countHashed(streams [][]string, lengths []int, collector *metrics.Collector) error {
	for _, n := range lengths {
		start := time.Now()
		h, err := ngram.NewHashed(n)
		if err != nil {
			return err
		}
		for _, stream := range streams {
			h.Count(stream)
		}
		collector.RecordHistogram(n, h.Total(), h.Len(), time.Since(start))

		if _, err := fmt.Fprintf(a.stdout, "n=%d: %s n-grams, %s distinct fingerprints\n",
			n, humanize.Comma(int64(h.Total())), humanize.Comma(int64(h.Len()))); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) writeMetrics(collector *metrics.Collector, path string) error {
	if path == "" {
		return nil
	}
	return collector.WriteTextfile(path)
}

// readStreams tokenizes every input. No arguments means standard input.
func (a *app) readStreams(args []string, tok tokenize.Tokenizer, collector *metrics.Collector) ([][]string, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	streams := make([][]string, 0, len(args))
	for _, path := range args {
		text, err := a.readInput(path)
		if err != nil {
			return nil, err
		}
		tokens, err := tok.Tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("failed to tokenize %s: %w", path, err)
		}
		collector.RecordDocument(len(tokens))
		a.logger.Debug("tokenized input",
			zap.String("path", path),
			zap.String("tokenizer", tok.Name()),
			zap.Int("tokens", len(tokens)))
		streams = append(streams, tokens)
	}
	return streams, nil
}

func (a *app) readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

func (a *app) writeHistogram(h *ngram.Histogram[string], opts countOptions) error {
	switch {
	case opts.json:
		return report.JSON(a.stdout, h.N(), h.Total(), h.Len(), h.Top(opts.top))
	case opts.print:
		return report.Table(a.stdout, h.Top(opts.top), h.Total(), h.Len(), report.Options{
			Title: fmt.Sprintf("%d-grams", h.N()),
			Plain: opts.plain,
		})
	default:
		_, err := fmt.Fprintf(a.stdout, "n=%d: %s n-grams, %s distinct\n",
			h.N(), humanize.Comma(int64(h.Total())), humanize.Comma(int64(h.Len())))
		return err
	}
}

// snapshotName suffixes the window size when one run saves several lengths.
func snapshotName(base string, n, lengths int) string {
	if lengths == 1 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}
