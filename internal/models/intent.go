package models

// Intent labels what the user is asking for. Classification runs ordered
// pattern rules over the normalized query; the first rule to match wins.
type Intent string

const (
	IntentOutlierDetection Intent = "OUTLIER_DETECTION"
	IntentPareto           Intent = "PARETO_ANALYSIS"
	IntentGapAnalysis      Intent = "GAP_ANALYSIS"
	IntentTermException    Intent = "TERM_EXCEPTION"
	IntentTermSearch       Intent = "TERM_SEARCH"
	IntentTopRanking       Intent = "TOP_N_RANKING"
	IntentBottomRanking    Intent = "BOTTOM_N_RANKING"
	IntentHierarchy        Intent = "HIERARCHY_LOOKUP"
	IntentDistribution     Intent = "DISTRIBUTION"
	IntentCount            Intent = "COUNT_FILTERED"
	IntentCategoryLookup   Intent = "CATEGORY_LOOKUP"
	IntentUnknown          Intent = "UNKNOWN"
)
