// Package service composes the pipeline: snapshot fetch, scoring, insight
// generation, and the batch orchestration that runs it over many
// repositories with per-item failure isolation.
package service

import (
	"context"
	"fmt"

	"vibecheck/internal/insight"
	"vibecheck/internal/models"
	"vibecheck/internal/scoring"
)

// SnapshotFetcher is the snapshot aggregator boundary. The GitHub client is
// the production implementation; tests substitute failures.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, owner, repo string) (models.RepositorySnapshot, error)
}

// AnalyzeService runs the full pipeline for one repository.
type AnalyzeService interface {
	Analyze(ctx context.Context, owner, repo string) (models.RepoAnalysis, error)
}

type analyzeService struct {
	fetcher  SnapshotFetcher
	scorer   *scoring.Scorer
	insights *insight.Service
}

// NewAnalyzeService wires dependencies and returns AnalyzeService.
func NewAnalyzeService(fetcher SnapshotFetcher, scorer *scoring.Scorer, insights *insight.Service) AnalyzeService {
	return &analyzeService{fetcher: fetcher, scorer: scorer, insights: insights}
}

// Analyze fetches a snapshot, scores it, and attaches the insight. The fetch
// is the only step that can fail: without a snapshot there is nothing to
// score, so the error propagates instead of producing a partial result.
func (s *analyzeService) Analyze(ctx context.Context, owner, repo string) (models.RepoAnalysis, error) {
	snap, err := s.fetcher.FetchSnapshot(ctx, owner, repo)
	if err != nil {
		return models.RepoAnalysis{}, fmt.Errorf("snapshot unavailable: %w", err)
	}

	return models.RepoAnalysis{
		Repository: snap.FullName,
		Score:      s.scorer.Score(snap),
		Insight:    s.insights.Generate(ctx, snap),
	}, nil
}
