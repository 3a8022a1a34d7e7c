package scoring

import (
	"math"
	"strings"

	"vibecheck/internal/models"
)

// Keyword lists matched case-insensitively against declared dependency names.
var (
	securityTools    = []string{"snyk", "dependabot", "safety", "bandit", "semgrep"}
	performanceTools = []string{"prometheus", "grafana", "newrelic", "datadog", "sentry"}
	modernFrameworks = []string{
		"react", "vue", "svelte", "next", "nuxt", "fastapi",
		"pytorch", "tensorflow", "langchain", "tailwind", "vite", "graphql",
	}
	configFiles = []string{
		"makefile", "dockerfile", "package.json", "go.mod",
		"pyproject.toml", "cargo.toml", ".editorconfig",
	}
	versionManifests = []string{
		"package.json", "setup.py", "pyproject.toml", "cargo.toml", "go.mod",
	}
)

// scoreCollaboration: commit rate, update recency, contributor count and star
// count, each bucketed into fixed point amounts.
func scoreCollaboration(snap models.RepositorySnapshot) int {
	score := 0

	days := snap.DaysSinceCreated
	if days < 1 {
		days = 1
	}
	rate := float64(len(snap.Commits)) / float64(days)
	switch {
	case rate > 1:
		score += 40
	case rate > 0.5:
		score += 30
	case rate > 0.1:
		score += 20
	case rate > 0.01:
		score += 10
	}

	switch {
	case snap.DaysSinceUpdated < 7:
		score += 35
	case snap.DaysSinceUpdated < 30:
		score += 25
	case snap.DaysSinceUpdated < 90:
		score += 15
	case snap.DaysSinceUpdated < 365:
		score += 10
	}

	switch n := len(snap.Contributors); {
	case n > 20:
		score += 25
	case n > 10:
		score += 20
	case n > 3:
		score += 15
	case n > 0:
		score += 10
	}

	switch {
	case snap.Stars > 1000:
		score += 25
	case snap.Stars > 100:
		score += 20
	case snap.Stars > 10:
		score += 15
	case snap.Stars > 0:
		score += 10
	}

	return clamp(score)
}

// scoreCodeQuality: test presence and coverage ratio, mean file size, and the
// housekeeping files every tidy repository carries.
func scoreCodeQuality(snap models.RepositorySnapshot) int {
	score := 0

	files := fileCount(snap)
	tests := testFileCount(snap)
	if tests > 0 && files > 0 {
		score += 40 + int(math.Round(20*float64(tests)/float64(files)))
	}

	switch mean := meanFileSize(snap); {
	case files == 0:
	case mean < 500:
		score += 30
	case mean < 1000:
		score += 20
	case mean < 2000:
		score += 10
	}

	if hasFile(snap, ".gitignore") {
		score += 10
	}
	if snap.HasLicense || hasFilePrefix(snap, "license") {
		score += 10
	}
	if hasAnyFile(snap, configFiles) {
		score += 10
	}

	return clamp(score)
}

func scoreReadability(snap models.RepositorySnapshot) int {
	score := 0
	if hasFilePrefix(snap, "readme") {
		score += 30
	}
	if snap.Description != "" {
		score += 20
	}
	switch n := markdownFileCount(snap); {
	case n > 5:
		score += 25
	case n > 2:
		score += 15
	case n > 0:
		score += 10
	}
	if hasDir(snap, "docs") {
		score += 15
	}
	if snap.HasLicense {
		score += 10
	}
	return clamp(score)
}

// scoreInnovation: 15 points per recognized modern framework (capped at 60)
// plus a language-diversity bonus.
func scoreInnovation(snap models.RepositorySnapshot) int {
	score := 0

	frameworks := 0
	for _, name := range modernFrameworks {
		if dependencyMatches(snap, name) {
			frameworks++
		}
	}
	bonus := frameworks * 15
	if bonus > 60 {
		bonus = 60
	}
	score += bonus

	switch n := len(snap.Languages); {
	case n > 4:
		score += 40
	case n > 2:
		score += 30
	case n > 1:
		score += 20
	case n == 1:
		score += 10
	}

	return clamp(score)
}

func scoreMaintainability(snap models.RepositorySnapshot) int {
	score := 0
	switch {
	case snap.DaysSinceUpdated < 30:
		score += 30
	case snap.DaysSinceUpdated < 90:
		score += 20
	case snap.DaysSinceUpdated < 365:
		score += 10
	}
	switch {
	case snap.OpenIssues < 10:
		score += 25
	case snap.OpenIssues < 50:
		score += 15
	case snap.OpenIssues < 100:
		score += 5
	}
	if hasFile(snap, ".gitignore") {
		score += 15
	}
	switch n := len(snap.Dependencies); {
	case n > 0 && n <= 30:
		score += 20
	case n > 30 && n <= 60:
		score += 10
	}
	if snap.HasLicense {
		score += 10
	}
	return clamp(score)
}

func scoreInclusivity(snap models.RepositorySnapshot) int {
	score := 0
	if len(snap.CommunityFiles) > 0 {
		score += 40
	}
	if len(snap.CommunityFiles) > 2 {
		score += 20
	}
	if snap.Description != "" {
		score += 20
	}
	if len(snap.Topics) > 0 {
		score += 20
	}
	return clamp(score)
}

func scoreSecurity(snap models.RepositorySnapshot) int {
	score := 0
	if len(snap.SecurityFiles) > 0 {
		score += 40
	}
	if len(snap.SecurityFiles) > 2 {
		score += 15
	}
	tools := 0
	for _, name := range securityTools {
		if dependencyMatches(snap, name) {
			tools++
		}
	}
	bonus := tools * 15
	if bonus > 30 {
		bonus = 30
	}
	score += bonus
	if snap.HasLicense {
		score += 15
	}
	return clamp(score)
}

func scorePerformance(snap models.RepositorySnapshot) int {
	score := 0
	if len(snap.PerformanceFiles) > 0 {
		score += 35
	}
	tools := 0
	for _, name := range performanceTools {
		if dependencyMatches(snap, name) {
			tools++
		}
	}
	bonus := tools * 15
	if bonus > 45 {
		bonus = 45
	}
	score += bonus
	if hasDir(snap, ".github") {
		score += 20
	}
	return clamp(score)
}

func scoreTestingQuality(snap models.RepositorySnapshot) int {
	score := 0
	files := fileCount(snap)
	tests := testFileCount(snap)
	if tests > 0 {
		score += 50
		if files > 0 {
			score += int(math.Round(30 * float64(tests) / float64(files)))
		}
	}
	if hasDir(snap, ".github") {
		score += 20
	}
	return clamp(score)
}

func scoreCommunityHealth(snap models.RepositorySnapshot) int {
	score := 0
	switch n := len(snap.Contributors); {
	case n > 10:
		score += 30
	case n > 3:
		score += 20
	case n > 0:
		score += 10
	}
	if len(snap.CommunityFiles) > 0 {
		score += 30
	}
	switch n := len(snap.Topics); {
	case n > 3:
		score += 20
	case n > 0:
		score += 10
	}
	switch {
	case snap.Forks > 50:
		score += 20
	case snap.Forks > 10:
		score += 10
	case snap.Forks > 0:
		score += 5
	}
	return clamp(score)
}

func scoreCodeHealth(snap models.RepositorySnapshot) int {
	score := 0
	files := fileCount(snap)
	switch mean := meanFileSize(snap); {
	case files == 0:
	case mean < 1000:
		score += 30
	case mean < 5000:
		score += 15
	}
	switch n := dirCount(snap); {
	case n > 3:
		score += 20
	case n > 0:
		score += 10
	}
	if hasFile(snap, ".gitignore") {
		score += 20
	}
	switch {
	case snap.OpenIssues < 20:
		score += 30
	case snap.OpenIssues < 100:
		score += 15
	}
	return clamp(score)
}

func scoreReleaseManagement(snap models.RepositorySnapshot) int {
	score := 0
	if hasFilePrefix(snap, "changelog") {
		score += 50
	}
	if hasAnyFile(snap, versionManifests) {
		score += 30
	}
	if hasDir(snap, ".github") {
		score += 20
	}
	return clamp(score)
}

// ---- Snapshot helpers ------------------------------------------------------

func fileCount(snap models.RepositorySnapshot) int {
	n := 0
	for _, e := range snap.Contents {
		if e.Type == "file" {
			n++
		}
	}
	return n
}

func dirCount(snap models.RepositorySnapshot) int {
	n := 0
	for _, e := range snap.Contents {
		if e.Type == "dir" {
			n++
		}
	}
	return n
}

func testFileCount(snap models.RepositorySnapshot) int {
	n := 0
	for _, e := range snap.Contents {
		if e.Type != "file" {
			continue
		}
		name := strings.ToLower(e.Name)
		if strings.Contains(name, "test") || strings.Contains(name, "spec") {
			n++
		}
	}
	return n
}

func markdownFileCount(snap models.RepositorySnapshot) int {
	n := 0
	for _, e := range snap.Contents {
		if e.Type == "file" && strings.HasSuffix(strings.ToLower(e.Name), ".md") {
			n++
		}
	}
	return n
}

func meanFileSize(snap models.RepositorySnapshot) float64 {
	files := 0
	var total int64
	for _, e := range snap.Contents {
		if e.Type == "file" {
			files++
			total += e.Size
		}
	}
	if files == 0 {
		return 0
	}
	return float64(total) / float64(files)
}

func hasFile(snap models.RepositorySnapshot, name string) bool {
	for _, e := range snap.Contents {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

func hasFilePrefix(snap models.RepositorySnapshot, prefix string) bool {
	for _, e := range snap.Contents {
		if strings.HasPrefix(strings.ToLower(e.Name), prefix) {
			return true
		}
	}
	return false
}

func hasAnyFile(snap models.RepositorySnapshot, names []string) bool {
	for _, name := range names {
		if hasFile(snap, name) {
			return true
		}
	}
	return false
}

func hasDir(snap models.RepositorySnapshot, name string) bool {
	for _, e := range snap.Contents {
		if e.Type == "dir" && strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

func dependencyMatches(snap models.RepositorySnapshot, keyword string) bool {
	for _, dep := range snap.Dependencies {
		if strings.Contains(strings.ToLower(dep), keyword) {
			return true
		}
	}
	return false
}
