package models

// Insight provenance markers. Callers receive the same payload shape either
// way; Source exists for logging and tests only.
const (
	SourceGemini    = "gemini"
	SourceHeuristic = "heuristic"
)

// Recommendation priorities, ordered critical < moderate < info.
const (
	PriorityCritical = "critical"
	PriorityModerate = "moderate"
	PriorityInfo     = "info"
)

// Recommendation is one prioritized suggestion attached to an insight.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // "critical" | "moderate" | "info"
	Category    string `json:"category"`
}

// Insight is the natural-language report for one repository, produced either
// by the generative model or by the deterministic heuristic builder.
type Insight struct {
	Summary         string           `json:"summary"`
	Strengths       []string         `json:"strengths"`
	Improvements    []string         `json:"improvements"`
	Recommendation  string           `json:"recommendation"` // single top recommendation
	Collaboration   string           `json:"collaboration"`
	Activity        string           `json:"activity"` // "very active" | "active" | "moderate" | "quiet"
	QualityScore    int              `json:"quality_score"`
	KeyInsights     []string         `json:"key_insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source,omitempty"`
}
