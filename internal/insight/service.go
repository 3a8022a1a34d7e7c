package insight

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"vibecheck/internal/models"
)

// DefaultTimeout is the hard deadline for one external generation attempt.
const DefaultTimeout = 9 * time.Second

// Service orchestrates insight generation: cache check, a deadline-bounded
// model call, strict parsing, and the deterministic heuristic fallback.
// Generate never fails; only construction of the Vertex generator can.
type Service struct {
	gen     TextGenerator
	cache   *Cache
	timeout time.Duration
	group   singleflight.Group
}

// NewService wires a generator (nil selects heuristic-only operation, used by
// tests), a cache, and the per-attempt timeout.
func NewService(gen TextGenerator, cache *Cache, timeout time.Duration) *Service {
	if cache == nil {
		cache = NewCache(DefaultCacheTTL, DefaultCacheSize)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{gen: gen, cache: cache, timeout: timeout}
}

// Generate returns the insight payload for a snapshot. A live cache entry is
// returned as-is; concurrent misses for the same key are coalesced into one
// generation so a burst of identical requests triggers at most one model
// call.
func (s *Service) Generate(ctx context.Context, snap models.RepositorySnapshot) models.Insight {
	key := CacheKey(snap)
	if ins, ok := s.cache.Get(key); ok {
		log.Printf("insight: cache hit for %s", snap.FullName)
		return ins
	}

	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		// A coalesced waiter may arrive after the leader stored the entry.
		if ins, ok := s.cache.Get(key); ok {
			return ins, nil
		}
		ins := s.generateFresh(ctx, snap)
		s.cache.Put(key, ins)
		return ins, nil
	})
	return v.(models.Insight)
}

// generateFresh runs one model attempt under the deadline and falls back to
// the heuristic builder on any failure.
func (s *Service) generateFresh(ctx context.Context, snap models.RepositorySnapshot) models.Insight {
	if s.gen == nil {
		return heuristicInsight(snap)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.callGenerator(attemptCtx, buildPrompt(snap))
	if err != nil {
		log.Printf("insight: generation failed for %s, using heuristic: %v", snap.FullName, err)
		return heuristicInsight(snap)
	}

	ins, err := parseInsight(text)
	if err != nil {
		log.Printf("insight: unparsable model output for %s, using heuristic: %v", snap.FullName, err)
		return heuristicInsight(snap)
	}
	ins.Source = models.SourceGemini
	return ins
}

// callGenerator races the model call against the context deadline. The call
// runs in its own goroutine writing to a buffered channel, so a generator
// that ignores cancellation still cannot delay the response or overwrite the
// already-chosen fallback; its late result is simply dropped.
func (s *Service) callGenerator(ctx context.Context, prompt string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := s.gen.GenerateText(ctx, prompt)
		ch <- result{text: text, err: err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
