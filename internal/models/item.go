// Package models defines the core data structures shared across the engine:
// classified dataset rows, extracted query entities, intents, and the context
// payload handed to the conversational AI.
package models

// Match status sentinels as they appear in the classified dataset. Comparisons
// against these values are byte-exact; the ingest layer preserves the original
// accented spellings.
const (
	StatusUnique    = "Único"
	StatusAmbiguous = "Ambíguo"
	StatusNone      = "Nenhum"
)

// IsSentinel reports whether v is one of the three match status sentinels.
func IsSentinel(v string) bool {
	return v == StatusUnique || v == StatusAmbiguous || v == StatusNone
}

// Item is one classified row of the dataset. N1 is the broadest taxonomy
// level and N4 the most specific. A level may hold a real category name, a
// sentinel (for rows that could not be fully classified), or be empty.
type Item struct {
	N1          string `json:"n1"`
	N2          string `json:"n2"`
	N3          string `json:"n3"`
	N4          string `json:"n4"`
	Description string `json:"description"`
	MatchType   string `json:"match_type"`
}

// LevelValue returns the category value at the given hierarchy level.
// LevelNone and LevelDescription return the description.
func (it Item) LevelValue(l Level) string {
	switch l {
	case LevelN1:
		return it.N1
	case LevelN2:
		return it.N2
	case LevelN3:
		return it.N3
	case LevelN4:
		return it.N4
	default:
		return it.Description
	}
}

// Level identifies a taxonomy hierarchy level.
type Level int

const (
	LevelNone Level = iota
	LevelN1
	LevelN2
	LevelN3
	LevelN4
	LevelDescription
)

// String returns the dataset column name for the level.
func (l Level) String() string {
	switch l {
	case LevelN1:
		return "N1"
	case LevelN2:
		return "N2"
	case LevelN3:
		return "N3"
	case LevelN4:
		return "N4"
	case LevelDescription:
		return "descrição"
	default:
		return ""
	}
}

// Next returns the level one step deeper in the hierarchy. Below N4 the next
// grouping dimension is the item description.
func (l Level) Next() Level {
	switch l {
	case LevelN1:
		return LevelN2
	case LevelN2:
		return LevelN3
	case LevelN3:
		return LevelN4
	case LevelN4:
		return LevelDescription
	default:
		return LevelN1
	}
}

// Levels lists the four taxonomy levels from broadest to most specific.
var Levels = []Level{LevelN1, LevelN2, LevelN3, LevelN4}
