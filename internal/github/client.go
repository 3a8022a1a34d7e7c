// Package github is the snapshot aggregator: a minimal wrapper around
// GitHub's REST API v3 that assembles the RepositorySnapshot the scoring and
// insight pipeline consumes. It is intentionally light—just the endpoints the
// pipeline requires.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"vibecheck/internal/models"
)

// Failure classes the caller can branch on with errors.Is. Any of them means
// the repository cannot be scored; the pipeline never attempts partial
// scoring from a failed fetch.
var (
	ErrNotFound    = errors.New("github: repository not found")
	ErrRateLimited = errors.New("github: rate limited")
	ErrAuthFailed  = errors.New("github: authentication failed")
)

const defaultBaseURL = "https://api.github.com"

// memoTTL bounds how long an assembled snapshot is reused before the API is
// consulted again. Distinct from the insight cache: this only saves repeat
// round-trips for back-to-back requests.
const memoTTL = 2 * time.Minute

// Client fetches repository metadata and assembles snapshots.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	now     func() time.Time
	memo    *expirable.LRU[string, models.RepositorySnapshot]
}

// NewClient returns a ready-to-use client. token may be an empty string, but
// you will be subject to very low rate-limits.
func NewClient(token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
		token:   token,
		now:     time.Now,
		memo:    expirable.NewLRU[string, models.RepositorySnapshot](128, nil, memoTTL),
	}
}

// ---- API response shapes ---------------------------------------------------

type repoResponse struct {
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	Language        string   `json:"language"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	Topics          []string `json:"topics"`
	License         *struct {
		Key string `json:"key"`
	} `json:"license"`
}

type contentResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type commitResponse struct {
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type contributorResponse struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
	HTMLURL       string `json:"html_url"`
}

type fileResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// ---- Snapshot assembly -----------------------------------------------------

// FetchSnapshot pulls metadata, the root contents listing, recent commits,
// contributors and languages, then derives the tagged file sets and declared
// dependencies. Repository metadata is mandatory; the secondary listings are
// best-effort and default to empty collections.
func (c *Client) FetchSnapshot(ctx context.Context, owner, repo string) (models.RepositorySnapshot, error) {
	key := owner + "/" + repo
	if snap, ok := c.memo.Get(key); ok {
		return snap, nil
	}

	var meta repoResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo)), &meta); err != nil {
		return models.RepositorySnapshot{}, fmt.Errorf("fetch %s: %w", key, err)
	}

	snap := models.RepositorySnapshot{
		FullName:        meta.FullName,
		Owner:           owner,
		Name:            repo,
		Description:     meta.Description,
		PrimaryLanguage: meta.Language,
		Stars:           meta.StargazersCount,
		Forks:           meta.ForksCount,
		OpenIssues:      meta.OpenIssuesCount,
		HasLicense:      meta.License != nil,
		CreatedAt:       meta.CreatedAt,
		UpdatedAt:       meta.UpdatedAt,
		Contents:        []models.ContentEntry{},
		Commits:         []models.Commit{},
		Contributors:    []models.Contributor{},
		Languages:       map[string]int{},
		Topics:          meta.Topics,
		Dependencies:    []string{},
	}
	if snap.FullName == "" {
		snap.FullName = key
	}
	if snap.Topics == nil {
		snap.Topics = []string{}
	}
	snap.DaysSinceCreated = daysSince(meta.CreatedAt, c.now())
	if snap.DaysSinceCreated < 1 {
		snap.DaysSinceCreated = 1
	}
	snap.DaysSinceUpdated = daysSince(meta.UpdatedAt, c.now())

	// Secondary listings: a failure leaves the collection empty rather than
	// failing the snapshot.
	var contents []contentResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contents", url.PathEscape(owner), url.PathEscape(repo)), &contents); err == nil {
		for _, e := range contents {
			snap.Contents = append(snap.Contents, models.ContentEntry{
				Name: e.Name, Path: e.Path, Type: e.Type, Size: e.Size,
			})
		}
	}

	var commits []commitResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits?per_page=100", url.PathEscape(owner), url.PathEscape(repo)), &commits); err == nil {
		for _, e := range commits {
			snap.Commits = append(snap.Commits, models.Commit{
				Author:  e.Commit.Author.Name,
				Message: e.Commit.Message,
				Date:    e.Commit.Author.Date,
			})
		}
	}

	var contributors []contributorResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contributors?per_page=100", url.PathEscape(owner), url.PathEscape(repo)), &contributors); err == nil {
		for _, e := range contributors {
			snap.Contributors = append(snap.Contributors, models.Contributor{
				Login:         e.Login,
				Contributions: e.Contributions,
				AvatarURL:     e.AvatarURL,
				ProfileURL:    e.HTMLURL,
			})
		}
	}

	var languages map[string]int
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", url.PathEscape(owner), url.PathEscape(repo)), &languages); err == nil && languages != nil {
		snap.Languages = languages
	}

	snap.SecurityFiles, snap.PerformanceFiles, snap.CommunityFiles = scanFileTags(snap.Contents)
	snap.Dependencies = c.fetchDependencies(ctx, owner, repo, snap.Contents)

	c.memo.Add(key, snap)
	return snap, nil
}

// ---- File tagging ----------------------------------------------------------

var (
	securityNames    = []string{"security", "dependabot", "snyk", "codeql", "audit"}
	performanceNames = []string{"benchmark", "perf", "profil", "load_test"}
	communityNames   = []string{"contributing", "code_of_conduct", "support", "governance", "funding"}
)

// scanFileTags buckets content names into the three tagged file sets used by
// the scorer, matching case-insensitively.
func scanFileTags(contents []models.ContentEntry) (security, performance, community []string) {
	security = []string{}
	performance = []string{}
	community = []string{}
	for _, e := range contents {
		name := strings.ToLower(e.Name)
		if matchesAny(name, securityNames) {
			security = append(security, e.Name)
		}
		if matchesAny(name, performanceNames) {
			performance = append(performance, e.Name)
		}
		if matchesAny(name, communityNames) {
			community = append(community, e.Name)
		}
	}
	return security, performance, community
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// ---- Dependency manifests --------------------------------------------------

// fetchDependencies reads the root dependency manifests it recognizes and
// returns the deduplicated declared package names. Best effort: a missing or
// unreadable manifest contributes nothing.
func (c *Client) fetchDependencies(ctx context.Context, owner, repo string, contents []models.ContentEntry) []string {
	seen := map[string]bool{}
	deps := []string{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	}

	for _, e := range contents {
		if e.Type != "file" {
			continue
		}
		switch strings.ToLower(e.Name) {
		case "package.json":
			if body, err := c.fetchFile(ctx, owner, repo, e.Path); err == nil {
				for _, name := range parsePackageJSON(body) {
					add(name)
				}
			}
		case "requirements.txt":
			if body, err := c.fetchFile(ctx, owner, repo, e.Path); err == nil {
				for _, name := range parseRequirements(body) {
					add(name)
				}
			}
		case "go.mod":
			if body, err := c.fetchFile(ctx, owner, repo, e.Path); err == nil {
				for _, name := range parseGoMod(body) {
					add(name)
				}
			}
		}
	}
	return deps
}

func parsePackageJSON(body string) []string {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(body), &manifest); err != nil {
		return nil
	}
	var names []string
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	for name := range manifest.DevDependencies {
		names = append(names, name)
	}
	return names
}

func parseRequirements(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		for _, sep := range []string{"==", ">=", "<=", "~=", ">", "<", "[", ";"} {
			if idx := strings.Index(line, sep); idx >= 0 {
				line = line[:idx]
			}
		}
		names = append(names, strings.TrimSpace(line))
	}
	return names
}

func parseGoMod(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 2 && strings.Contains(fields[0], "/") && strings.HasPrefix(fields[1], "v") {
			names = append(names, fields[0])
		}
	}
	return names
}

// fetchFile retrieves a file's decoded contents via the contents API.
func (c *Client) fetchFile(ctx context.Context, owner, repo, path string) (string, error) {
	var file fileResponse
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", url.PathEscape(owner), url.PathEscape(repo), path)
	if err := c.get(ctx, endpoint, &file); err != nil {
		return "", err
	}
	if file.Encoding != "base64" {
		return file.Content, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("github: decode %s: %w", path, err)
	}
	return string(raw), nil
}

// ---- Transport -------------------------------------------------------------

// get executes one API request and decodes JSON into v.
func (c *Client) get(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	c.addHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthFailed
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 300:
		return fmt.Errorf("github: unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "vibecheck-api")
}

// daysSince parses an RFC3339 timestamp and returns whole days between it and
// now, or 0 when the timestamp is absent or malformed.
func daysSince(ts string, now time.Time) int {
	if ts == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0
	}
	d := int(now.Sub(t).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
