// Package analytics computes dataset-wide quality reports: classification
// summary, ABC concentration curves, vocabulary gaps in unclassified rows,
// and ambiguity hotspots.
package analytics

import (
	"sort"
	"unicode/utf8"

	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

const (
	classACutoff = 80.0
	classBCutoff = 95.0
	maxGapWords  = 20
	maxAmbiguous = 20
	minGapWord   = 4
)

// Summary aggregates classification status over the whole dataset.
type Summary struct {
	Total             int     `json:"total"`
	Unique            int     `json:"unique"`
	Ambiguous         int     `json:"ambiguous"`
	Unclassified      int     `json:"unclassified"`
	ClassifiedPercent float64 `json:"classified_percent"`
}

// ABCGroup is one row of an ABC concentration curve. Class is "A" for groups
// inside the top 80% of cumulative share, "B" up to 95%, "C" beyond.
type ABCGroup struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	Accumulated float64 `json:"accumulated"`
	Class       string  `json:"class"`
}

// WordCount is a word-frequency row from unclassified descriptions.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Report is the full analytics output.
type Report struct {
	Summary   Summary               `json:"summary"`
	Pareto    map[string][]ABCGroup `json:"pareto"`
	Gaps      []WordCount           `json:"gaps"`
	Ambiguity []models.GroupCount   `json:"ambiguity"`
}

// Build computes the analytics report over the dataset.
func Build(items []models.Item) Report {
	return Report{
		Summary:   buildSummary(items),
		Pareto:    buildPareto(items),
		Gaps:      buildGaps(items),
		Ambiguity: buildAmbiguity(items),
	}
}

func buildSummary(items []models.Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.MatchType {
		case models.StatusUnique:
			s.Unique++
		case models.StatusAmbiguous:
			s.Ambiguous++
		default:
			s.Unclassified++
		}
	}
	if s.Total > 0 {
		s.ClassifiedPercent = float64(s.Unique+s.Ambiguous) / float64(s.Total) * 100
	}
	return s
}

func buildPareto(items []models.Item) map[string][]ABCGroup {
	out := make(map[string][]ABCGroup, len(models.Levels))
	for _, lvl := range models.Levels {
		counts := make(map[string]int)
		total := 0
		for _, it := range items {
			v := it.LevelValue(lvl)
			if v == "" || models.IsSentinel(v) {
				continue
			}
			counts[v]++
			total++
		}

		if total == 0 {
			out[lvl.String()] = []ABCGroup{}
			continue
		}

		groups := make([]ABCGroup, 0, len(counts))
		for name, count := range counts {
			groups = append(groups, ABCGroup{Name: name, Count: count})
		}
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Count != groups[j].Count {
				return groups[i].Count > groups[j].Count
			}
			return groups[i].Name < groups[j].Name
		})

		accumulated := 0.0
		for i := range groups {
			accumulated += float64(groups[i].Count) / float64(total) * 100
			groups[i].Accumulated = accumulated
			switch {
			case accumulated <= classACutoff:
				groups[i].Class = "A"
			case accumulated <= classBCutoff:
				groups[i].Class = "B"
			default:
				groups[i].Class = "C"
			}
		}
		out[lvl.String()] = groups
	}
	return out
}

// buildGaps counts the most frequent significant words among descriptions
// that failed classification, pointing at vocabulary the taxonomy does not
// cover yet.
func buildGaps(items []models.Item) []WordCount {
	counts := make(map[string]int)
	for _, it := range items {
		if it.MatchType == models.StatusUnique || it.MatchType == models.StatusAmbiguous {
			continue
		}
		for _, w := range utils.Tokenize(utils.Normalize(it.Description)) {
			if utf8.RuneCountInString(w) < minGapWord {
				continue
			}
			counts[w]++
		}
	}

	words := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		words = append(words, WordCount{Word: w, Count: c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if len(words) > maxGapWords {
		words = words[:maxGapWords]
	}
	return words
}

// buildAmbiguity ranks the N4 categories with the most ambiguous rows.
func buildAmbiguity(items []models.Item) []models.GroupCount {
	counts := make(map[string]int)
	for _, it := range items {
		if it.MatchType != models.StatusAmbiguous {
			continue
		}
		name := it.N4
		if name == "" {
			name = models.StatusNone
		}
		counts[name]++
	}

	rows := make([]models.GroupCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, models.GroupCount{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > maxAmbiguous {
		rows = rows[:maxAmbiguous]
	}
	return rows
}
