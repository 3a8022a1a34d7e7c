package insight

import (
	"fmt"
	"sort"
	"strings"

	"vibecheck/internal/models"
)

// buildPrompt renders the snapshot subset the model needs and pins the exact
// JSON schema the parser accepts.
func buildPrompt(snap models.RepositorySnapshot) string {
	langs := make([]string, 0, len(snap.Languages))
	for lang := range snap.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	return fmt.Sprintf(`You are reviewing a software repository. Based on the metadata below, produce an assessment.

Repository: %s
Description: %s
Primary language: %s (all: %s)
Stars: %d, Forks: %d, Open issues: %d
Contributors: %d, Commits in window: %d
Days since last update: %d, Days since creation: %d
License present: %t
Declared dependencies: %s

Respond with a single JSON object and nothing else, using exactly this schema:
{
  "summary": "one paragraph overview",
  "strengths": ["..."],
  "improvements": ["..."],
  "recommendation": "the single most important next step",
  "collaboration": "one sentence on how the team collaborates",
  "activity": "very active | active | moderate | quiet",
  "qualityScore": 0,
  "keyInsights": ["..."],
  "recommendations": [
    {"title": "...", "description": "...", "priority": "critical|moderate|info", "category": "..."}
  ]
}`,
		snap.FullName,
		snap.Description,
		snap.PrimaryLanguage,
		strings.Join(langs, ", "),
		snap.Stars, snap.Forks, snap.OpenIssues,
		len(snap.Contributors), len(snap.Commits),
		snap.DaysSinceUpdated, snap.DaysSinceCreated,
		snap.HasLicense,
		strings.Join(snap.Dependencies, ", "),
	)
}
