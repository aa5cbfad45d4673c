// Package entity extracts structured entities (category, level, counts,
// terms, filters) from a free-text query about the classified dataset.
package entity

import (
	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

// BuildVocabulary collects the distinct non-empty, non-sentinel category
// values across N1-N4 of the dataset, preserving first-seen order (rows in
// dataset order, levels broad to specific within each row). The order
// matters: fuzzy category matching is first-fit.
func BuildVocabulary(items []models.Item) []string {
	seen := make(map[string]bool)
	var vocab []string
	for _, it := range items {
		for _, lvl := range models.Levels {
			v := it.LevelValue(lvl)
			if v == "" || models.IsSentinel(v) {
				continue
			}
			key := utils.Normalize(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			vocab = append(vocab, v)
		}
	}
	return vocab
}
