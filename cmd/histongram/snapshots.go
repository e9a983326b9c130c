package main

import (
	"encoding/json"
	"fmt"

	"histongram/internal/report"
	"histongram/internal/store"
	"histongram/pkg/ngram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func showCmd(a *app) *cobra.Command {
	var (
		top     int
		jsonOut bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the most frequent n-grams of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("top") {
				top = a.cfg.Top
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			h, err := snap.Histogram()
			if err != nil {
				return fmt.Errorf("snapshot %s is corrupt: %w", snap.Name, err)
			}

			if jsonOut {
				return report.JSON(a.stdout, h.N(), h.Total(), h.Len(), h.Top(top))
			}
			return report.Table(a.stdout, h.Top(top), h.Total(), h.Len(), report.Options{
				Title: fmt.Sprintf("%s (%d-grams, %s)", snap.Name, snap.N, snap.Tokenizer),
				Plain: plain,
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "number of n-grams to print, 0 for all (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per n-gram instead of a table")

	return cmd
}

func listCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			return report.Snapshots(a.stdout, summaries)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.logger.Info("snapshot deleted", zap.String("name", args[0]))
			fmt.Fprintf(a.stdout, "deleted %s\n", args[0])
			return nil
		},
	}
}

func mergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge DEST SRC...",
		Short: "Merge snapshots into a new snapshot",
		Long: `Merge adds the counts of every SRC snapshot and saves the result as DEST,
replacing any snapshot already called DEST. All sources must share the same
n-gram length.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dest, sources := args[0], args[1:]

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			hists := make([]*ngram.Histogram[string], 0, len(sources))
			var tokenizer string
			for _, name := range sources {
				snap, err := st.Load(ctx, name)
				if err != nil {
					return err
				}
				h, err := snap.Histogram()
				if err != nil {
					return fmt.Errorf("snapshot %s is corrupt: %w", name, err)
				}
				if tokenizer == "" {
					tokenizer = snap.Tokenizer
				} else if tokenizer != snap.Tokenizer {
					a.logger.Warn("merging snapshots with different tokenizers",
						zap.String("snapshot", name),
						zap.String("tokenizer", snap.Tokenizer),
						zap.String("expected", tokenizer))
				}
				hists = append(hists, h)
			}

			merged, err := ngram.Reduce(hists...)
			if err != nil {
				return fmt.Errorf("failed to merge snapshots: %w", err)
			}

			snap := store.FromHistogram(dest, tokenizer, merged)
			if err := st.Save(ctx, snap); err != nil {
				return fmt.Errorf("failed to save snapshot %s: %w", dest, err)
			}
			a.logger.Info("snapshots merged",
				zap.String("dest", dest),
				zap.Strings("sources", sources),
				zap.Int("total", merged.Total()))

			return report.Snapshots(a.stdout, []store.Summary{snap.Summary()})
		},
	}
}
