package ngram

import (
	"encoding/json"
	"fmt"
)

type histogramJSON[T comparable] struct {
	N       int        `json:"n"`
	Total   int        `json:"total"`
	Entries []Entry[T] `json:"entries"`
}

// MarshalJSON encodes the histogram as its window size, total and entries
// ordered by descending count.
func (h *Histogram[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(histogramJSON[T]{
		N:       h.n,
		Total:   h.total,
		Entries: h.Sorted(),
	})
}

// UnmarshalJSON replaces h with the decoded histogram.
func (h *Histogram[T]) UnmarshalJSON(data []byte) error {
	var raw histogramJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError("UnmarshalJSON", err)
	}
	decoded, err := FromEntries(raw.N, raw.Entries)
	if err != nil {
		return err
	}
	if raw.Total != 0 && raw.Total != decoded.total {
		return WrapError("UnmarshalJSON", fmt.Errorf("total %d does not match entries (%d)", raw.Total, decoded.total))
	}
	*h = *decoded
	return nil
}
