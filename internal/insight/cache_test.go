package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecheck/internal/models"
)

func newTestCache(ttl time.Duration, max int) (*Cache, *time.Time) {
	c := NewCache(ttl, max)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheKeyConcatenatesIdentity(t *testing.T) {
	snap := models.RepositorySnapshot{
		FullName:  "octo/widgets",
		UpdatedAt: "2025-05-30T10:00:00Z",
	}
	assert.Equal(t, "octo/widgets-2025-05-30T10:00:00Z", CacheKey(snap))
}

func TestCacheHitWithinTTL(t *testing.T) {
	c, _ := newTestCache(10*time.Minute, 50)
	ins := models.Insight{Summary: "fine", Source: models.SourceHeuristic}

	c.Put("k", ins)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, ins, got)
}

func TestCacheExpiresLazilyAtRead(t *testing.T) {
	c, now := newTestCache(10*time.Minute, 50)
	c.Put("k", models.Insight{Summary: "fine"})

	*now = now.Add(10 * time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is removed at read")
}

func TestCacheEvictsOldestInsertionPastBound(t *testing.T) {
	c, _ := newTestCache(time.Hour, 50)

	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("k%d", i), models.Insight{Summary: fmt.Sprintf("s%d", i)})
	}
	require.Equal(t, 50, c.Len())

	c.Put("k50", models.Insight{Summary: "s50"})
	assert.Equal(t, 50, c.Len(), "size bound holds after the 51st insert")

	_, ok := c.Get("k0")
	assert.False(t, ok, "exactly the oldest-inserted entry is evicted")
	_, ok = c.Get("k1")
	assert.True(t, ok)
	_, ok = c.Get("k50")
	assert.True(t, ok)
}

func TestCacheReadDoesNotAffectEvictionOrder(t *testing.T) {
	c, _ := newTestCache(time.Hour, 2)
	c.Put("a", models.Insight{Summary: "a"})
	c.Put("b", models.Insight{Summary: "b"})

	// Touching "a" must not promote it: eviction order is insertion order.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", models.Insight{Summary: "c"})
	_, ok = c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestCacheOverwriteCountsAsNewInsertion(t *testing.T) {
	c, _ := newTestCache(time.Hour, 2)
	c.Put("a", models.Insight{Summary: "a1"})
	c.Put("b", models.Insight{Summary: "b"})
	c.Put("a", models.Insight{Summary: "a2"})

	c.Put("c", models.Insight{Summary: "c"})
	_, ok := c.Get("b")
	assert.False(t, ok, "b became the oldest insertion after a was re-stored")

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a2", got.Summary)
}
