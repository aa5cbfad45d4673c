package models

// ErrorCode identifies a structured failure reported inside a payload rather
// than as a Go error, so the conversational layer can phrase it for the user.
type ErrorCode string

const (
	ErrScopeNotFound ErrorCode = "ScopeNotFound"
	ErrInternal      ErrorCode = "InternalError"
)

// ContextPayload is the package of structured data and guidance handed to the
// external conversational AI alongside the user's question.
type ContextPayload struct {
	// Data is the algorithm result: a slice of GroupCount, ParetoGroup,
	// DistributionGroup, an ErrorData, or an intent-specific struct.
	Data any `json:"data"`

	// Text is a short human-readable summary of the result, in the
	// dataset's language.
	Text string `json:"text"`

	// Instructions tell the conversational AI how to present Data.
	Instructions string `json:"instructions"`

	// RelevantItems carries a small sample of dataset rows backing the
	// result, when one helps the AI ground its answer.
	RelevantItems []Item `json:"relevant_items,omitempty"`
}

// ErrorData is placed in ContextPayload.Data when an operation fails in a way
// the user should hear about.
type ErrorData struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// GroupCount is one row of a frequency ranking.
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ParetoGroup is one row of a cumulative-share analysis. Percent and
// Accumulated are expressed 0-100.
type ParetoGroup struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	Percent     float64 `json:"percent"`
	Accumulated float64 `json:"accumulated"`
}

// DistributionGroup is one row of a share-of-total breakdown.
type DistributionGroup struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}
