package insight

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecheck/internal/models"
)

func fallbackSnapshot() models.RepositorySnapshot {
	return models.RepositorySnapshot{
		FullName:         "octo/widgets",
		Description:      "a widget factory",
		PrimaryLanguage:  "Go",
		Stars:            150,
		Forks:            30,
		OpenIssues:       5,
		HasLicense:       true,
		DaysSinceUpdated: 3,
		Contributors:     make([]models.Contributor, 12),
		Contents: []models.ContentEntry{
			{Name: "README.md", Type: "file"},
			{Name: "main_test.go", Type: "file"},
		},
		Languages: map[string]int{"Go": 1000},
	}
}

func TestHeuristicInsightIsByteIdentical(t *testing.T) {
	snap := fallbackSnapshot()

	first, err := json.Marshal(heuristicInsight(snap))
	require.NoError(t, err)
	second, err := json.Marshal(heuristicInsight(snap))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHeuristicQualityScore(t *testing.T) {
	// base 50 + stars>100 (10) + forks>10 (5) + contributors>10 (10)
	// + issues<10 (5) + license (5) + description (5) = 90
	assert.Equal(t, 90, heuristicQuality(fallbackSnapshot()))

	assert.Equal(t, 55, heuristicQuality(models.RepositorySnapshot{}),
		"empty snapshot keeps the base plus the low-issue bonus and nothing else")
}

func TestHeuristicQualityIsClamped(t *testing.T) {
	snap := fallbackSnapshot()
	snap.Stars = 5000
	snap.Forks = 500
	q := heuristicQuality(snap)
	assert.LessOrEqual(t, q, 100)
	assert.GreaterOrEqual(t, q, 0)
}

func TestActivityBuckets(t *testing.T) {
	assert.Equal(t, "very active", activityBucket(3))
	assert.Equal(t, "active", activityBucket(15))
	assert.Equal(t, "moderate", activityBucket(60))
	assert.Equal(t, "quiet", activityBucket(400))
}

func TestHeuristicRecommendationsExactCountAndOrder(t *testing.T) {
	// A bare repository triggers every critical candidate.
	recs := heuristicRecommendations(models.RepositorySnapshot{})
	require.Len(t, recs, recommendationCount)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t,
			priorityRank[recs[i-1].Priority], priorityRank[recs[i].Priority],
			"recommendations are ordered critical < moderate < info")
	}
	assert.Equal(t, models.PriorityCritical, recs[0].Priority)
}

func TestHeuristicRecommendationsPadWithFiller(t *testing.T) {
	// A healthy repository leaves few applicable candidates; filler entries
	// top the list up to the fixed count. Duplicate categories between real
	// and filler entries are accepted behavior.
	snap := fallbackSnapshot()
	snap.SecurityFiles = []string{"SECURITY.md"}
	snap.PerformanceFiles = []string{"benchmark.go"}

	recs := heuristicRecommendations(snap)
	require.Len(t, recs, recommendationCount)
	assert.Equal(t, fillerRecommendations, recs, "no applicable candidates leaves only filler")
}

func TestHeuristicInsightShape(t *testing.T) {
	ins := heuristicInsight(fallbackSnapshot())

	assert.Equal(t, models.SourceHeuristic, ins.Source)
	assert.NotEmpty(t, ins.Summary)
	assert.NotEmpty(t, ins.Strengths)
	assert.NotEmpty(t, ins.Improvements)
	assert.NotEmpty(t, ins.Collaboration)
	assert.Equal(t, "very active", ins.Activity)
	assert.Equal(t, ins.Recommendations[0].Title, ins.Recommendation)
	require.Len(t, ins.Recommendations, recommendationCount)
}
