package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecheck/internal/models"
)

func activeSnapshot() models.RepositorySnapshot {
	commits := make([]models.Commit, 50)
	contributors := make([]models.Contributor, 12)
	return models.RepositorySnapshot{
		FullName:         "octo/widgets",
		Stars:            150,
		Forks:            30,
		OpenIssues:       5,
		HasLicense:       true,
		Description:      "a widget factory",
		DaysSinceCreated: 400,
		DaysSinceUpdated: 3,
		Commits:          commits,
		Contributors:     contributors,
	}
}

func TestNewScorerRejectsBadWeightTables(t *testing.T) {
	w := DefaultWeights()
	w[MetricCodeQuality] = 20 // sum becomes 104
	_, err := NewScorer(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum")

	w = DefaultWeights()
	delete(w, MetricSecurity)
	_, err = NewScorer(w)
	require.Error(t, err)

	w = DefaultWeights()
	w[MetricSecurity] = -12
	w[MetricCodeQuality] = 16 + 24 // keep the sum at 100, still invalid
	_, err = NewScorer(w)
	require.Error(t, err)
}

func TestDefaultWeightsSumToOneHundred(t *testing.T) {
	sum := 0
	for _, w := range DefaultWeights() {
		sum += w
	}
	require.Equal(t, 100, sum)
	require.Len(t, DefaultWeights(), 12)
}

func TestScoreBoundsOnEmptySnapshot(t *testing.T) {
	score := NewDefaultScorer().Score(models.RepositorySnapshot{})

	assert.GreaterOrEqual(t, score.Total, 0)
	assert.LessOrEqual(t, score.Total, 100)
	require.Len(t, score.Breakdown, 12)
	for metric, sub := range score.Breakdown {
		assert.GreaterOrEqual(t, sub, 0, metric)
		assert.LessOrEqual(t, sub, 100, metric)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewDefaultScorer()
	snap := activeSnapshot()

	first := s.Score(snap)
	second := s.Score(snap)
	assert.Equal(t, first, second)

	// A structurally identical snapshot scores identically too.
	assert.Equal(t, first, s.Score(activeSnapshot()))
}

func TestCollaborationBuckets(t *testing.T) {
	snap := activeSnapshot()

	// 50 commits over 400 days = 0.125/day -> 20; updated 3 days ago -> 35;
	// 12 contributors -> 20; 150 stars -> 20.
	assert.Equal(t, 95, scoreCollaboration(snap))

	snap.Commits = nil
	snap.Contributors = nil
	snap.Stars = 0
	snap.DaysSinceUpdated = 400
	assert.Equal(t, 0, scoreCollaboration(snap))
}

func TestCollaborationCommitRateFloorsCreationAge(t *testing.T) {
	snap := models.RepositorySnapshot{
		Commits:          make([]models.Commit, 3),
		DaysSinceCreated: 0, // created today
		DaysSinceUpdated: 400,
	}
	// Rate uses a 1-day floor: 3 commits/day -> 40.
	assert.Equal(t, 40, scoreCollaboration(snap))
}

func TestCodeQualityBucketsAndCap(t *testing.T) {
	snap := models.RepositorySnapshot{
		HasLicense: true,
		Contents: []models.ContentEntry{
			{Name: "main.go", Type: "file", Size: 400},
			{Name: "main_test.go", Type: "file", Size: 300},
			{Name: ".gitignore", Type: "file", Size: 10},
			{Name: "go.mod", Type: "file", Size: 5},
		},
	}
	// tests: 40 + round(20*1/4) = 45; mean size 178 -> 30;
	// .gitignore 10; license 10; config file 10 => 105, capped.
	assert.Equal(t, 100, scoreCodeQuality(snap))

	snap.Contents = []models.ContentEntry{
		{Name: "blob.bin", Type: "file", Size: 100_000},
	}
	snap.HasLicense = false
	assert.Equal(t, 0, scoreCodeQuality(snap))
}

func TestInnovationFrameworkCapAndLanguageBonus(t *testing.T) {
	snap := models.RepositorySnapshot{
		Dependencies: []string{"react", "vite", "tailwindcss", "next", "nuxt"},
		Languages:    map[string]int{"TypeScript": 1000, "CSS": 200},
	}
	// 5 frameworks * 15 capped at 60, plus 2 languages -> 20.
	assert.Equal(t, 80, scoreInnovation(snap))

	assert.Equal(t, 0, scoreInnovation(models.RepositorySnapshot{}))
}

func TestSecurityKeywordMatchingIsCaseInsensitive(t *testing.T) {
	snap := models.RepositorySnapshot{
		SecurityFiles: []string{"SECURITY.md"},
		Dependencies:  []string{"Snyk", "SEMGREP"},
	}
	// any security file 40 + two tools capped at 30.
	assert.Equal(t, 70, scoreSecurity(snap))
}

func TestTotalIsWeightedRoundedComposite(t *testing.T) {
	s := NewDefaultScorer()
	snap := activeSnapshot()
	score := s.Score(snap)

	weighted := 0.0
	for metric, sub := range score.Breakdown {
		weighted += float64(sub) * float64(score.Weights[metric]) / 100.0
	}
	want := int(weighted + 0.5)
	assert.Equal(t, want, score.Total)
}

func TestScoreReturnsWeightCopy(t *testing.T) {
	s := NewDefaultScorer()
	score := s.Score(models.RepositorySnapshot{})
	score.Weights[MetricCodeQuality] = 0

	// Mutating the returned table must not affect later scores.
	again := s.Score(models.RepositorySnapshot{})
	assert.Equal(t, 16, again.Weights[MetricCodeQuality])
}
