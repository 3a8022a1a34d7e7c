package insight

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecheck/internal/models"
)

// countingGenerator wraps another generator and counts invocations.
type countingGenerator struct {
	inner TextGenerator
	calls atomic.Int64
}

func (g *countingGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	return g.inner.GenerateText(ctx, prompt)
}

// hangingGenerator never returns until its context is abandoned.
type hangingGenerator struct{}

func (hangingGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	select {} // ignores cancellation on purpose
}

func serviceSnapshot() models.RepositorySnapshot {
	return models.RepositorySnapshot{
		FullName:         "octo/widgets",
		UpdatedAt:        "2025-05-30T10:00:00Z",
		Stars:            150,
		Forks:            30,
		OpenIssues:       5,
		HasLicense:       true,
		DaysSinceUpdated: 3,
		DaysSinceCreated: 400,
	}
}

func TestGenerateUsesModelOutput(t *testing.T) {
	svc := NewService(NewStaticGenerator(validModelOutput), NewCache(time.Minute, 10), time.Second)

	ins := svc.Generate(context.Background(), serviceSnapshot())
	assert.Equal(t, models.SourceGemini, ins.Source)
	assert.Equal(t, "A well maintained project.", ins.Summary)
}

func TestGenerateCachesWithinTTL(t *testing.T) {
	gen := &countingGenerator{inner: NewStaticGenerator(validModelOutput)}
	svc := NewService(gen, NewCache(time.Minute, 10), time.Second)
	snap := serviceSnapshot()

	first := svc.Generate(context.Background(), snap)
	second := svc.Generate(context.Background(), snap)

	assert.Equal(t, int64(1), gen.calls.Load(), "second call is served from cache")
	assert.Equal(t, first, second)
}

func TestGenerateRefreshesAfterTTL(t *testing.T) {
	gen := &countingGenerator{inner: NewStaticGenerator(validModelOutput)}
	cache := NewCache(10*time.Minute, 10)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	svc := NewService(gen, cache, time.Second)
	snap := serviceSnapshot()

	svc.Generate(context.Background(), snap)
	now = now.Add(11 * time.Minute)
	svc.Generate(context.Background(), snap)

	assert.Equal(t, int64(2), gen.calls.Load(), "expired entry forces a fresh call")
}

func TestGenerateKeyIncludesUpdatedAt(t *testing.T) {
	gen := &countingGenerator{inner: NewStaticGenerator(validModelOutput)}
	svc := NewService(gen, NewCache(time.Minute, 10), time.Second)

	snap := serviceSnapshot()
	svc.Generate(context.Background(), snap)
	snap.UpdatedAt = "2025-05-31T10:00:00Z"
	svc.Generate(context.Background(), snap)

	assert.Equal(t, int64(2), gen.calls.Load(), "a pushed-to repository bypasses the stale entry")
}

func TestGenerateFallsBackOnTimeout(t *testing.T) {
	svc := NewService(hangingGenerator{}, NewCache(time.Minute, 10), 50*time.Millisecond)

	start := time.Now()
	ins := svc.Generate(context.Background(), serviceSnapshot())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "resolves within deadline plus epsilon")
	assert.Equal(t, models.SourceHeuristic, ins.Source)
	assert.NotEmpty(t, ins.Summary)
	require.Len(t, ins.Recommendations, recommendationCount)
}

func TestGenerateFallsBackOnGeneratorError(t *testing.T) {
	svc := NewService(NewFailingGenerator(errors.New("boom")), NewCache(time.Minute, 10), time.Second)

	ins := svc.Generate(context.Background(), serviceSnapshot())
	assert.Equal(t, models.SourceHeuristic, ins.Source)
}

func TestGenerateFallsBackOnMalformedOutput(t *testing.T) {
	svc := NewService(NewStaticGenerator("sorry, I can only answer in prose"), NewCache(time.Minute, 10), time.Second)

	ins := svc.Generate(context.Background(), serviceSnapshot())
	assert.Equal(t, models.SourceHeuristic, ins.Source)
	assert.NotEmpty(t, ins.Summary)
}

func TestFallbackPayloadsAreByteIdentical(t *testing.T) {
	snap := serviceSnapshot()

	// Two independent services with an unparsable generator must produce the
	// same bytes for the same snapshot.
	a := NewService(NewStaticGenerator("not json"), NewCache(time.Minute, 10), time.Second)
	b := NewService(NewStaticGenerator("not json"), NewCache(time.Minute, 10), time.Second)

	first, err := json.Marshal(a.Generate(context.Background(), snap))
	require.NoError(t, err)
	second, err := json.Marshal(b.Generate(context.Background(), snap))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateCachesFallbackResults(t *testing.T) {
	gen := &countingGenerator{inner: NewStaticGenerator("not json")}
	svc := NewService(gen, NewCache(time.Minute, 10), time.Second)
	snap := serviceSnapshot()

	svc.Generate(context.Background(), snap)
	svc.Generate(context.Background(), snap)
	assert.Equal(t, int64(1), gen.calls.Load(), "heuristic results are cached too")
}

func TestConcurrentMissesCoalesceIntoOneCall(t *testing.T) {
	gen := &countingGenerator{inner: slowGenerator{delay: 50 * time.Millisecond, text: validModelOutput}}
	svc := NewService(gen, NewCache(time.Minute, 10), time.Second)
	snap := serviceSnapshot()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Generate(context.Background(), snap)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), gen.calls.Load(), "same-key misses share one model call")
}

func TestNilGeneratorIsHeuristicOnly(t *testing.T) {
	svc := NewService(nil, NewCache(time.Minute, 10), time.Second)
	ins := svc.Generate(context.Background(), serviceSnapshot())
	assert.Equal(t, models.SourceHeuristic, ins.Source)
}

type slowGenerator struct {
	delay time.Duration
	text  string
}

func (g slowGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	select {
	case <-time.After(g.delay):
		return g.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
