package engine

import (
	"sort"
	"unicode/utf8"

	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

const minWordLen = 4

// stopWords excludes generic fillers from word-frequency rankings. Only
// words of minWordLen or more need listing.
var stopWords = map[string]bool{
	"para":  true,
	"pela":  true,
	"pelo":  true,
	"como":  true,
	"mais":  true,
	"sobre": true,
	"entre": true,
	"item":  true,
}

// grouping describes the dimension a ranking aggregates over: a hierarchy
// level, item descriptions, or words tokenized out of descriptions.
type grouping struct {
	level models.Level
	words bool
}

func (g grouping) label() string {
	if g.words {
		return "palavras das descrições"
	}
	return g.level.String()
}

// resolveGrouping picks the dimension for ranking intents. An explicit level
// wins (drilled one step deeper when it equals the scope's own level); an
// explicit target type comes next; otherwise the level is inferred from how
// deep the scope category sits, defaulting to N1 for an unscoped query.
func resolveGrouping(e models.Entities, sc scope) grouping {
	if e.Level != models.LevelNone {
		return grouping{level: drillDown(e.Level, sc.level)}
	}
	switch e.TargetType {
	case models.TargetItem:
		return grouping{level: models.LevelDescription}
	case models.TargetWord:
		return grouping{words: true}
	}
	if sc.level != models.LevelNone {
		return grouping{level: sc.level.Next()}
	}
	return grouping{level: models.LevelN1}
}

// drillDown steps the requested level one deeper when it equals the scope's
// own level: grouping a scope by the level that selected it would produce a
// single 100% bucket.
func drillDown(requested, scopeLevel models.Level) models.Level {
	if requested == scopeLevel {
		return requested.Next()
	}
	return requested
}

// frequencyTable counts occurrences of the grouping value across items,
// skipping empty values, and returns rows sorted by count descending (name
// ascending on ties). With ascending set, the lowest counts come first.
func frequencyTable(items []models.Item, g grouping, ascending bool) []models.GroupCount {
	counts := make(map[string]int)
	if g.words {
		for _, it := range items {
			for _, w := range descriptionWords(it.Description) {
				counts[w]++
			}
		}
	} else {
		for _, it := range items {
			v := it.LevelValue(g.level)
			if v == "" {
				continue
			}
			counts[v]++
		}
	}

	rows := make([]models.GroupCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, models.GroupCount{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			if ascending {
				return rows[i].Count < rows[j].Count
			}
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// descriptionWords tokenizes a description for word-frequency analysis,
// dropping short tokens and stop words.
func descriptionWords(description string) []string {
	var out []string
	for _, t := range utils.Tokenize(utils.Normalize(description)) {
		if utf8.RuneCountInString(t) < minWordLen || stopWords[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}
