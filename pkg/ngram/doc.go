// Package ngram counts n-grams, the contiguous runs of n tokens, over
// sequences of any comparable token type.
//
// A Histogram is created for one window size and fed token sequences:
//
//	h, err := ngram.New[string](2)
//	if err != nil {
//		return err
//	}
//	h.Count([]string{"a", "b", "a", "b", "a"})
//	h.Get([]string{"a", "b"}) // 2
//	h.Total()                 // 4
//
// Token boundaries are up to the caller; see the tokenize package for
// ready-made word, character and BPE tokenizers.
//
// Histograms are plain values with a single owner. To count on several
// goroutines, give each goroutine its own histogram and combine them with
// Merge, Reduce or CountParallel.
package ngram
