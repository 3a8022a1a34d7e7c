package insight

import (
	"fmt"
	"sort"
	"strings"

	"vibecheck/internal/models"
)

// recommendationCount is the exact number of recommendations every payload
// carries, LLM-derived or heuristic.
const recommendationCount = 4

var priorityRank = map[string]int{
	models.PriorityCritical: 0,
	models.PriorityModerate: 1,
	models.PriorityInfo:     2,
}

// fillerRecommendations pad a payload up to the fixed count when fewer
// applicable candidates exist. Categories may duplicate real entries; the
// count guarantee is the contract, deduplication is not.
var fillerRecommendations = []models.Recommendation{
	{
		Title:       "Keep dependencies current",
		Description: "Review and update declared dependencies on a regular cadence to pick up fixes early.",
		Priority:    models.PriorityInfo,
		Category:    "maintenance",
	},
	{
		Title:       "Triage open issues regularly",
		Description: "A short weekly triage keeps the issue tracker actionable and signals an active project.",
		Priority:    models.PriorityInfo,
		Category:    "maintenance",
	},
	{
		Title:       "Tag releases",
		Description: "Versioned releases with short notes make the project easier to adopt and to roll back.",
		Priority:    models.PriorityInfo,
		Category:    "release",
	},
	{
		Title:       "Document the contribution workflow",
		Description: "Even a brief CONTRIBUTING section lowers the bar for first-time contributors.",
		Priority:    models.PriorityInfo,
		Category:    "community",
	},
}

// heuristicInsight derives the canonical payload shape from raw snapshot
// counters. It is fully deterministic: the same snapshot always produces an
// identical payload.
func heuristicInsight(snap models.RepositorySnapshot) models.Insight {
	activity := activityBucket(snap.DaysSinceUpdated)
	quality := heuristicQuality(snap)

	ins := models.Insight{
		Summary:         heuristicSummary(snap, activity),
		Strengths:       heuristicStrengths(snap),
		Improvements:    heuristicImprovements(snap),
		Collaboration:   collaborationNote(snap),
		Activity:        activity,
		QualityScore:    quality,
		KeyInsights:     keyInsights(snap),
		Recommendations: heuristicRecommendations(snap),
		Source:          models.SourceHeuristic,
	}
	ins.Recommendation = ins.Recommendations[0].Title
	return ins
}

// activityBucket maps days since the last update into the activity label.
func activityBucket(daysSinceUpdated int) string {
	switch {
	case daysSinceUpdated < 7:
		return "very active"
	case daysSinceUpdated < 30:
		return "active"
	case daysSinceUpdated < 90:
		return "moderate"
	default:
		return "quiet"
	}
}

// heuristicQuality starts at 50 and adds bucketed bonuses for traction and
// hygiene signals, clamped into [0, 100].
func heuristicQuality(snap models.RepositorySnapshot) int {
	score := 50
	switch {
	case snap.Stars > 1000:
		score += 15
	case snap.Stars > 100:
		score += 10
	case snap.Stars > 10:
		score += 5
	}
	switch {
	case snap.Forks > 100:
		score += 10
	case snap.Forks > 10:
		score += 5
	}
	switch {
	case len(snap.Contributors) > 10:
		score += 10
	case len(snap.Contributors) > 3:
		score += 5
	}
	if snap.OpenIssues < 10 {
		score += 5
	}
	if snap.HasLicense {
		score += 5
	}
	if snap.Description != "" {
		score += 5
	}
	return clampScore(score)
}

func heuristicSummary(snap models.RepositorySnapshot, activity string) string {
	lang := snap.PrimaryLanguage
	if lang == "" {
		lang = "mixed-language"
	}
	return fmt.Sprintf("%s is a %s %s repository with %d stars, %d forks and %d contributors.",
		snap.FullName, activity, lang, snap.Stars, snap.Forks, len(snap.Contributors))
}

func heuristicStrengths(snap models.RepositorySnapshot) []string {
	var out []string
	if snap.Stars > 100 {
		out = append(out, "Strong community interest measured by stars")
	}
	if len(snap.Contributors) > 3 {
		out = append(out, "Multiple active contributors share the maintenance load")
	}
	if snap.HasLicense {
		out = append(out, "Clearly licensed for reuse")
	}
	if hasTestFiles(snap) {
		out = append(out, "Automated tests are present")
	}
	if snap.Description != "" {
		out = append(out, "The project states its purpose up front")
	}
	if len(out) == 0 {
		out = append(out, "An early-stage project with room to define its strengths")
	}
	return out
}

func heuristicImprovements(snap models.RepositorySnapshot) []string {
	var out []string
	if !hasTestFiles(snap) {
		out = append(out, "No automated tests were detected")
	}
	if !hasReadme(snap) {
		out = append(out, "A README would help newcomers orient themselves")
	}
	if !snap.HasLicense {
		out = append(out, "No license is declared, which blocks many adopters")
	}
	if snap.OpenIssues > 50 {
		out = append(out, "The open issue backlog is growing")
	}
	if len(snap.SecurityFiles) == 0 {
		out = append(out, "No security policy or dependency scanning was found")
	}
	if len(out) == 0 {
		out = append(out, "Keep the current practices up; no obvious gaps stood out")
	}
	return out
}

func collaborationNote(snap models.RepositorySnapshot) string {
	switch n := len(snap.Contributors); {
	case n > 10:
		return fmt.Sprintf("A healthy group of %d contributors keeps the project moving.", n)
	case n > 1:
		return fmt.Sprintf("A small team of %d contributors maintains the project.", n)
	case n == 1:
		return "A single maintainer carries the project; the bus factor is 1."
	default:
		return "No contributor data is available for this repository."
	}
}

func keyInsights(snap models.RepositorySnapshot) []string {
	out := []string{
		fmt.Sprintf("Stars to forks ratio: %d/%d", snap.Stars, snap.Forks),
		fmt.Sprintf("Open issues: %d", snap.OpenIssues),
	}
	if n := len(snap.Languages); n > 1 {
		out = append(out, fmt.Sprintf("Spans %d languages led by %s", n, snap.PrimaryLanguage))
	} else if snap.PrimaryLanguage != "" {
		out = append(out, fmt.Sprintf("Written primarily in %s", snap.PrimaryLanguage))
	}
	return out
}

// heuristicRecommendations filters the fixed candidate catalogue by
// applicability, orders it critical < moderate < info, and truncates or pads
// to exactly recommendationCount entries.
func heuristicRecommendations(snap models.RepositorySnapshot) []models.Recommendation {
	var recs []models.Recommendation

	if !hasTestFiles(snap) {
		recs = append(recs, models.Recommendation{
			Title:       "Add automated tests",
			Description: "No test files were detected; a basic suite guards against regressions.",
			Priority:    models.PriorityCritical,
			Category:    "testing",
		})
	}
	if !hasReadme(snap) {
		recs = append(recs, models.Recommendation{
			Title:       "Write a README",
			Description: "Documentation is the first thing evaluators look for and none was found.",
			Priority:    models.PriorityCritical,
			Category:    "documentation",
		})
	}
	if len(snap.SecurityFiles) == 0 {
		recs = append(recs, models.Recommendation{
			Title:       "Add a security policy",
			Description: "A SECURITY.md and dependency scanning make vulnerability reports actionable.",
			Priority:    models.PriorityCritical,
			Category:    "security",
		})
	}
	if snap.OpenIssues > 50 {
		recs = append(recs, models.Recommendation{
			Title:       "Work down the issue backlog",
			Description: fmt.Sprintf("%d open issues suggest triage is falling behind.", snap.OpenIssues),
			Priority:    models.PriorityModerate,
			Category:    "code-quality",
		})
	}
	if len(snap.Contributors) <= 3 {
		recs = append(recs, models.Recommendation{
			Title:       "Grow the contributor base",
			Description: "Contribution guidelines and good-first-issue labels attract new contributors.",
			Priority:    models.PriorityModerate,
			Category:    "community",
		})
	}
	if len(snap.PerformanceFiles) == 0 {
		recs = append(recs, models.Recommendation{
			Title:       "Add performance visibility",
			Description: "Benchmarks or monitoring hooks catch slowdowns before users do.",
			Priority:    models.PriorityInfo,
			Category:    "performance",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	if len(recs) > recommendationCount {
		recs = recs[:recommendationCount]
	}
	return padRecommendations(recs)
}

// padRecommendations tops the list up to the fixed count with filler entries.
func padRecommendations(recs []models.Recommendation) []models.Recommendation {
	for i := 0; len(recs) < recommendationCount; i++ {
		recs = append(recs, fillerRecommendations[i%len(fillerRecommendations)])
	}
	return recs
}

func hasTestFiles(snap models.RepositorySnapshot) bool {
	for _, e := range snap.Contents {
		name := strings.ToLower(e.Name)
		if e.Type == "file" && (strings.Contains(name, "test") || strings.Contains(name, "spec")) {
			return true
		}
	}
	return false
}

func hasReadme(snap models.RepositorySnapshot) bool {
	for _, e := range snap.Contents {
		if strings.HasPrefix(strings.ToLower(e.Name), "readme") {
			return true
		}
	}
	return false
}
