// Package classify is the boundary to the external text-classification
// collaborator: a Classifier predicts one label per input text given a fixed
// set of labeled examples, and the helpers here summarize its output.
package classify

import (
	"context"
	"sort"
)

// Example is one labeled training sample for a classification task.
type Example struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Prediction is the predicted label for one input text.
type Prediction struct {
	Input      string
	Label      string
	Confidence float64
}

type Classifier interface {
	Classify(ctx context.Context, inputs []string, examples []Example) ([]Prediction, error)
}

type LabelCount struct {
	Label string
	Count int
}

// CountLabels aggregates predictions per label, most frequent first, ties
// broken by label name so the order is deterministic.
func CountLabels(preds []Prediction) []LabelCount {
	counts := make(map[string]int)
	for _, p := range preds {
		counts[p.Label]++
	}

	ret := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		ret = append(ret, LabelCount{Label: label, Count: count})
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Count != ret[j].Count {
			return ret[i].Count > ret[j].Count
		}
		return ret[i].Label < ret[j].Label
	})

	return ret
}

// Snippet shortens an input text for echoing back in per-text detail rows.
func Snippet(s string) string {
	if len(s) > 50 {
		s = s[:50]
	}

	return s + "..."
}
