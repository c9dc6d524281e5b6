package progression

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/coocood/freecache"
	"golang.org/x/sync/singleflight"
)

// MinCacheBytes is the smallest capacity freecache accepts. Smaller sizes are raised to it.
const MinCacheBytes = 512 * 1024

// Cache memoizes [Compute] in a fixed amount of memory. Old entries are evicted when it fills up.
//
// Compute is cheap and deterministic so the cache never changes results, it only saves work for the many repeated
// renders of the same calculation. Schemes without an ID are not cached because their identity is unknown.
type Cache struct {
	store *freecache.Cache
	group singleflight.Group
}

// NewCache creates a cache holding at most sizeBytes of encoded results.
func NewCache(sizeBytes int) *Cache {
	return &Cache{
		store: freecache.NewCache(max(sizeBytes, MinCacheBytes)),
		group: singleflight.Group{},
	}
}

// Compute returns the same as the package level [Compute].
func (c *Cache) Compute(targetWeight float64, scheme Scheme, setCount int) []SetResult {
	if c == nil || scheme.ID == "" {
		return Compute(targetWeight, scheme, setCount)
	}
	key := cacheKey(targetWeight, scheme, setCount)
	if cached, err := c.store.Get([]byte(key)); err == nil {
		var results []SetResult
		if err = json.Unmarshal(cached, &results); err == nil {
			return results
		}
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		results := Compute(targetWeight, scheme, setCount)
		if encoded, err := json.Marshal(results); err == nil {
			// A full cache or an oversized entry only means the next call recomputes.
			_ = c.store.Set([]byte(key), encoded, 0)
		}
		return results, nil
	})
	return cloneResults(v.([]SetResult)) //nolint:forcetypeassert // always []SetResult.
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (int64, int64) {
	return c.store.HitCount(), c.store.MissCount()
}

func cacheKey(targetWeight float64, scheme Scheme, setCount int) string {
	return strings.Join([]string{
		strconv.FormatFloat(targetWeight, 'g', -1, 64),
		scheme.ID,
		strconv.Itoa(scheme.Len()),
		strconv.Itoa(setCount),
	}, "|")
}

// cloneResults deep copies results shared between singleflight callers.
func cloneResults(results []SetResult) []SetResult {
	out := make([]SetResult, len(results))
	for i, r := range results {
		if r.PercentageUsed != nil {
			pct := *r.PercentageUsed
			r.PercentageUsed = &pct
		}
		out[i] = r
	}
	return out
}
