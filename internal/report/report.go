// Package report renders n-gram counts for the terminal and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"histongram/internal/store"
	"histongram/pkg/ngram"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// Options control table rendering.
type Options struct {
	// Title is printed above the table when set.
	Title string
	// Plain prints one `"token": count` line per entry instead of a table.
	Plain bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// FormatNgram quotes every token so that whitespace and empty tokens stay
// visible.
func FormatNgram(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = strconv.Quote(tok)
	}
	return strings.Join(quoted, " ")
}

// Share formats count as a percentage of total.
func Share(count, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", 100*float64(count)/float64(total))
}

// Table writes entries with their rank, count and share of total. The footer
// reports total and distinct for the whole histogram, which may hold more
// n-grams than entries.
func Table(w io.Writer, entries []ngram.Entry[string], total, distinct int, opts Options) error {
	if opts.Plain {
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s: %d\n", FormatNgram(e.Ngram), e.Count); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			FormatNgram(e.Ngram),
			humanize.Comma(int64(e.Count)),
			Share(e.Count, total),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "N-GRAM", "COUNT", "SHARE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return cellStyle
			default:
				return numberStyle
			}
		})

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(titleStyle.Render(opts.Title))
		b.WriteString("\n")
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s n-grams, %s distinct\n",
		humanize.Comma(int64(total)), humanize.Comma(int64(distinct)))

	_, err := io.WriteString(w, b.String())
	return err
}

// Document is the JSON form of a report.
type Document struct {
	N        int                   `json:"n"`
	Total    int                   `json:"total"`
	Distinct int                   `json:"distinct"`
	Entries  []ngram.Entry[string] `json:"entries"`
}

// JSON writes an indented JSON document. distinct is the number of distinct
// n-grams in the whole histogram, which may exceed len(entries) after a top-k
// cut.
func JSON(w io.Writer, n, total, distinct int, entries []ngram.Entry[string]) error {
	if entries == nil {
		entries = []ngram.Entry[string]{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{N: n, Total: total, Distinct: distinct, Entries: entries})
}

// Snapshots writes one row per saved snapshot.
func Snapshots(w io.Writer, summaries []store.Summary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "no snapshots")
		return err
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.N),
			s.Tokenizer,
			humanize.Comma(int64(s.Total)),
			humanize.Comma(int64(s.Distinct)),
			humanize.Time(s.CreatedAt),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("NAME", "N", "TOKENIZER", "TOTAL", "DISTINCT", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}
