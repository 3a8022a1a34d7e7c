package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vibecheck/internal/models"
)

// ErrMalformedResponse flags model output that carries no decodable insight
// object. The caller routes it to the heuristic fallback.
var ErrMalformedResponse = errors.New("insight: malformed model response")

// rawInsight is the strict schema the model is asked to produce. Unknown
// fields fail the decode so a partially matching payload is never trusted.
type rawInsight struct {
	Summary         string                  `json:"summary"`
	Strengths       []string                `json:"strengths"`
	Improvements    []string                `json:"improvements"`
	Recommendation  string                  `json:"recommendation"`
	Collaboration   string                  `json:"collaboration"`
	Activity        string                  `json:"activity"`
	QualityScore    int                     `json:"qualityScore"`
	KeyInsights     []string                `json:"keyInsights"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// parseInsight extracts the first balanced JSON object from the model output,
// decodes it strictly, and normalizes it into the canonical payload shape.
func parseInsight(text string) (models.Insight, error) {
	obj, ok := extractObject(text)
	if !ok {
		return models.Insight{}, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(obj))
	dec.DisallowUnknownFields()
	var raw rawInsight
	if err := dec.Decode(&raw); err != nil {
		return models.Insight{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.Summary == "" {
		return models.Insight{}, fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}

	return normalize(raw), nil
}

// extractObject scans text for the first balanced {...} block, tracking JSON
// string literals and escapes so braces inside strings don't unbalance the
// scan.
func extractObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}

// normalize converts a decoded payload into the canonical Insight shape:
// clamped quality score, known activity bucket, non-nil slices and exactly
// four prioritized recommendations.
func normalize(raw rawInsight) models.Insight {
	ins := models.Insight{
		Summary:         raw.Summary,
		Strengths:       emptyIfNil(raw.Strengths),
		Improvements:    emptyIfNil(raw.Improvements),
		Recommendation:  raw.Recommendation,
		Collaboration:   raw.Collaboration,
		Activity:        normalizeActivity(raw.Activity),
		QualityScore:    clampScore(raw.QualityScore),
		KeyInsights:     emptyIfNil(raw.KeyInsights),
		Recommendations: normalizeRecommendations(raw.Recommendations),
	}
	if ins.Recommendation == "" && len(ins.Recommendations) > 0 {
		ins.Recommendation = ins.Recommendations[0].Title
	}
	return ins
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

var activityBuckets = map[string]bool{
	"very active": true,
	"active":      true,
	"moderate":    true,
	"quiet":       true,
}

func normalizeActivity(activity string) string {
	a := strings.ToLower(strings.TrimSpace(activity))
	if activityBuckets[a] {
		return a
	}
	return "moderate"
}

func normalizeRecommendations(recs []models.Recommendation) []models.Recommendation {
	out := make([]models.Recommendation, 0, recommendationCount)
	for _, r := range recs {
		if r.Title == "" {
			continue
		}
		r.Priority = normalizePriority(r.Priority)
		out = append(out, r)
		if len(out) == recommendationCount {
			break
		}
	}
	return padRecommendations(out)
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case models.PriorityCritical:
		return models.PriorityCritical
	case models.PriorityModerate:
		return models.PriorityModerate
	default:
		return models.PriorityInfo
	}
}
