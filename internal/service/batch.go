package service

import (
	"context"
	"fmt"
	"sync"

	"vibecheck/internal/models"
)

// MaxBatchSize bounds one batch call. The HTTP boundary rejects larger
// request lists before they reach the orchestrator.
const MaxBatchSize = 10

// BatchService fans analysis requests out and joins the results.
type BatchService interface {
	RunBatch(ctx context.Context, requests []models.RepoRequest, parallel bool) models.BatchResult
}

type batchService struct {
	analyzer AnalyzeService
}

// NewBatchService returns a concrete implementation.
func NewBatchService(analyzer AnalyzeService) BatchService {
	return &batchService{analyzer: analyzer}
}

// RunBatch processes every request and never short-circuits: a failing item
// is recorded in its own slot and its siblings are unaffected. Result order
// always matches request order; in parallel mode each goroutine writes only
// the slot of its request index, so completion order is irrelevant.
func (s *batchService) RunBatch(ctx context.Context, requests []models.RepoRequest, parallel bool) models.BatchResult {
	items := make([]models.BatchItem, len(requests))

	if parallel {
		var wg sync.WaitGroup
		for i, req := range requests {
			wg.Add(1)
			go func(i int, req models.RepoRequest) {
				defer wg.Done()
				items[i] = s.runOne(ctx, req)
			}(i, req)
		}
		wg.Wait()
	} else {
		for i, req := range requests {
			items[i] = s.runOne(ctx, req)
		}
	}

	result := models.BatchResult{
		Items: items,
		Total: len(requests),
		Mode:  models.ModeSequential,
	}
	if parallel {
		result.Mode = models.ModeParallel
	}
	for _, item := range items {
		if item.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	return result
}

// runOne analyzes a single member, converting any error (or panic) into a
// failed item so nothing escapes into the batch.
func (s *batchService) runOne(ctx context.Context, req models.RepoRequest) (item models.BatchItem) {
	item = models.BatchItem{Owner: req.Owner, Repo: req.Repo}

	defer func() {
		if r := recover(); r != nil {
			item.Success = false
			item.Data = nil
			item.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	analysis, err := s.analyzer.Analyze(ctx, req.Owner, req.Repo)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.Success = true
	item.Data = &analysis
	return item
}
