package models

// Batch processing modes.
const (
	ModeParallel   = "parallel"
	ModeSequential = "sequential"
)

// RepoRequest identifies one repository in a batch call.
type RepoRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// RepoAnalysis is the full result for a single repository: its composite
// score plus the generated insight.
type RepoAnalysis struct {
	Repository string    `json:"repository"`
	Score      VibeScore `json:"score"`
	Insight    Insight   `json:"insight"`
}

// BatchItem is the outcome for one batch member. Exactly one of Data / Error
// is populated, keyed by Success.
type BatchItem struct {
	Owner   string        `json:"owner"`
	Repo    string        `json:"repo"`
	Success bool          `json:"success"`
	Data    *RepoAnalysis `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// BatchResult aggregates a batch run. Items preserves 1:1 correspondence with
// the request list regardless of completion order, and
// Successful + Failed == Total always holds.
type BatchResult struct {
	Items      []BatchItem `json:"results"`
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Mode       string      `json:"mode"`
}
