// Package scoring computes the twelve-dimension weighted vibe score for a
// repository snapshot. The scorer is a pure function of the snapshot: no I/O,
// no clock, no mutable state, so identical snapshots always score identically.
package scoring

import (
	"fmt"
	"math"

	"vibecheck/internal/models"
)

// Metric names, shared between the weight table and the score breakdown.
const (
	MetricCodeQuality       = "codeQuality"
	MetricReadability       = "readability"
	MetricCollaboration     = "collaboration"
	MetricInnovation        = "innovation"
	MetricMaintainability   = "maintainability"
	MetricInclusivity       = "inclusivity"
	MetricSecurity          = "security"
	MetricPerformance       = "performance"
	MetricTestingQuality    = "testingQuality"
	MetricCommunityHealth   = "communityHealth"
	MetricCodeHealth        = "codeHealth"
	MetricReleaseManagement = "releaseManagement"
)

// metricOrder fixes iteration order so totals are computed identically on
// every run regardless of map ordering.
var metricOrder = []string{
	MetricCodeQuality,
	MetricReadability,
	MetricCollaboration,
	MetricInnovation,
	MetricMaintainability,
	MetricInclusivity,
	MetricSecurity,
	MetricPerformance,
	MetricTestingQuality,
	MetricCommunityHealth,
	MetricCodeHealth,
	MetricReleaseManagement,
}

// DefaultWeights returns the fixed weight table. The values are a contract:
// they sum to exactly 100 and a scorer refuses to be built from any table
// that does not.
func DefaultWeights() map[string]int {
	return map[string]int{
		MetricCodeQuality:       16,
		MetricReadability:       12,
		MetricCollaboration:     15,
		MetricInnovation:        8,
		MetricMaintainability:   8,
		MetricInclusivity:       5,
		MetricSecurity:          12,
		MetricPerformance:       8,
		MetricTestingQuality:    6,
		MetricCommunityHealth:   4,
		MetricCodeHealth:        4,
		MetricReleaseManagement: 2,
	}
}

// Scorer turns a RepositorySnapshot into a VibeScore.
type Scorer struct {
	weights map[string]int
}

// NewScorer validates the weight table and returns a ready scorer. Every one
// of the twelve metrics must be present and the weights must sum to exactly
// 100; anything else is a construction error.
func NewScorer(weights map[string]int) (*Scorer, error) {
	sum := 0
	for _, name := range metricOrder {
		w, ok := weights[name]
		if !ok {
			return nil, fmt.Errorf("scoring: weight table is missing metric %q", name)
		}
		if w < 0 {
			return nil, fmt.Errorf("scoring: metric %q has negative weight %d", name, w)
		}
		sum += w
	}
	if len(weights) != len(metricOrder) {
		return nil, fmt.Errorf("scoring: weight table has %d entries, want %d", len(weights), len(metricOrder))
	}
	if sum != 100 {
		return nil, fmt.Errorf("scoring: weights sum to %d, want 100", sum)
	}
	copied := make(map[string]int, len(weights))
	for k, v := range weights {
		copied[k] = v
	}
	return &Scorer{weights: copied}, nil
}

// NewDefaultScorer builds a scorer from DefaultWeights.
func NewDefaultScorer() *Scorer {
	s, err := NewScorer(DefaultWeights())
	if err != nil {
		panic(err) // unreachable: DefaultWeights is the contract table
	}
	return s
}

// Score computes the twelve sub-scores and their weighted composite. Each
// sub-score is additive-bucketed and capped at 100; the total is
// round(sum(sub * weight / 100)) clamped into [0, 100].
func (s *Scorer) Score(snap models.RepositorySnapshot) models.VibeScore {
	breakdown := map[string]int{
		MetricCodeQuality:       scoreCodeQuality(snap),
		MetricReadability:       scoreReadability(snap),
		MetricCollaboration:     scoreCollaboration(snap),
		MetricInnovation:        scoreInnovation(snap),
		MetricMaintainability:   scoreMaintainability(snap),
		MetricInclusivity:       scoreInclusivity(snap),
		MetricSecurity:          scoreSecurity(snap),
		MetricPerformance:       scorePerformance(snap),
		MetricTestingQuality:    scoreTestingQuality(snap),
		MetricCommunityHealth:   scoreCommunityHealth(snap),
		MetricCodeHealth:        scoreCodeHealth(snap),
		MetricReleaseManagement: scoreReleaseManagement(snap),
	}

	weighted := 0.0
	for _, name := range metricOrder {
		weighted += float64(breakdown[name]) * float64(s.weights[name]) / 100.0
	}

	weights := make(map[string]int, len(s.weights))
	for k, v := range s.weights {
		weights[k] = v
	}

	return models.VibeScore{
		Total:     clamp(int(math.Round(weighted))),
		Breakdown: breakdown,
		Weights:   weights,
	}
}

// clamp bounds a score into [0, 100].
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
