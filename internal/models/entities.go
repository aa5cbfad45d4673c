package models

// TargetType is the kind of thing the user asked to rank or list.
type TargetType string

const (
	TargetItem     TargetType = "item"
	TargetCategory TargetType = "categoria"
	TargetWord     TargetType = "palavra"
)

// StatusFilter is a classification-status filter extracted from the query.
// It is distinct from the dataset sentinels: FilterAll means the user asked
// about classification quality in general, not a specific status.
type StatusFilter string

const (
	FilterUnique       StatusFilter = "unique"
	FilterAmbiguous    StatusFilter = "ambiguous"
	FilterUnclassified StatusFilter = "unclassified"
	FilterAll          StatusFilter = "all"
)

// Sentinel returns the dataset sentinel string matching the filter, or ""
// for FilterAll and unclassified (unclassified also matches absent values,
// so callers handle it specially).
func (f StatusFilter) Sentinel() string {
	switch f {
	case FilterUnique:
		return StatusUnique
	case FilterAmbiguous:
		return StatusAmbiguous
	case FilterUnclassified:
		return StatusNone
	default:
		return ""
	}
}

// Entities holds everything extracted from a single query. Zero values mean
// "absent": an empty Category means no category was matched, Number 0 means
// no count was requested, and so on. Extraction is independent of intent
// classification; the execution engine decides which fields matter.
type Entities struct {
	// Category is the dataset category name (original casing) that best
	// matches a fragment of the query, or "" when none matched.
	Category string `json:"category,omitempty"`

	// Level is the hierarchy level the user named explicitly ("nível 2",
	// "subcategoria"), or LevelNone.
	Level Level `json:"level,omitempty"`

	// TargetType is set when the query names items, categories, or words
	// explicitly.
	TargetType TargetType `json:"target_type,omitempty"`

	// Number is the requested result count (e.g. "top 7"), 0 when absent.
	Number int `json:"number,omitempty"`

	// Term is the verbatim quoted or introduced term ("com o termo X"),
	// preserved exactly as typed.
	Term string `json:"term,omitempty"`

	// Threshold is a character-length cutoff ("menos de 4 caracteres"),
	// 0 when absent.
	Threshold int `json:"threshold,omitempty"`

	// Status is set when the query filters by classification status.
	Status StatusFilter `json:"status,omitempty"`
}
