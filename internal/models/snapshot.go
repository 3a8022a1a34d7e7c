package models

// RepositorySnapshot is the complete set of repository metadata fed into one
// scoring / insight run. It is assembled once by the GitHub client and treated
// as immutable afterwards; every collection field is initialised to an empty
// (never nil-by-contract) value so downstream consumers never guard for absence.
type RepositorySnapshot struct {
	FullName        string `json:"full_name"` // "owner/repo"
	Owner           string `json:"owner"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PrimaryLanguage string `json:"primary_language"`

	Stars      int  `json:"stars"`
	Forks      int  `json:"forks"`
	OpenIssues int  `json:"open_issues"`
	HasLicense bool `json:"has_license"`

	// RFC3339 timestamps as reported by the API. UpdatedAt doubles as the
	// second component of the insight cache key, so it stays a raw string.
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// Day counts computed once at snapshot build so scoring stays a pure
	// function of the snapshot. DaysSinceCreated is floored at 1.
	DaysSinceCreated int `json:"days_since_created"`
	DaysSinceUpdated int `json:"days_since_updated"`

	Contents     []ContentEntry `json:"contents"`
	Commits      []Commit       `json:"commits"`
	Contributors []Contributor  `json:"contributors"`
	Languages    map[string]int `json:"languages"` // language -> bytes
	Topics       []string       `json:"topics"`

	// Pre-scanned filename tag sets, matched case-insensitively.
	SecurityFiles    []string `json:"security_files"`
	PerformanceFiles []string `json:"performance_files"`
	CommunityFiles   []string `json:"community_files"`

	// Declared package names from root manifests, deduplicated.
	Dependencies []string `json:"dependencies"`
}

// ContentEntry is one file or directory from the repository root listing.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" | "dir"
	Size int64  `json:"size"`
}

// Commit captures the minimal commit fields the pipeline cares about.
type Commit struct {
	Author  string `json:"author"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// Contributor is one entry from the contributors listing.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
	ProfileURL    string `json:"profile_url"`
}
