package analysis

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/interfaces"
	"github.com/inferloop/tsinsight/pkg/models"
)

var _ interfaces.ResultCache = (*AnalysisCache)(nil)

// AnalysisCache memoizes holistic analysis results keyed by an input
// fingerprint. Entries expire after a TTL and are evicted least recently
// used beyond the capacity. Concurrent requests for the same fingerprint
// share a single computation.
type AnalysisCache struct {
	mu       sync.RWMutex
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	ttl      time.Duration
	capacity int
	group    singleflight.Group

	clock func() time.Time
}

type cacheEntry struct {
	key       string
	result    *models.HolisticAnalysis
	createdAt time.Time
}

// NewAnalysisCache creates a cache with the given capacity and TTL.
// Non-positive arguments fall back to the defaults.
func NewAnalysisCache(capacity int, ttl time.Duration) *AnalysisCache {
	if capacity <= 0 {
		capacity = constants.DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &AnalysisCache{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		ttl:      ttl,
		capacity: capacity,
		clock:    time.Now,
	}
}

// GetOrCompute returns the live cached result for key or runs compute,
// stores its result, and returns it. The bool reports a cache hit. At most
// one compute per key runs at a time; concurrent callers for the same key
// receive the in-flight result.
func (c *AnalysisCache) GetOrCompute(key string, compute func() (*models.HolisticAnalysis, error)) (*models.HolisticAnalysis, bool, error) {
	if result := c.get(key); result != nil {
		return result, true, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A racing caller may have stored the result between the miss and
		// the singleflight admission.
		if result := c.get(key); result != nil {
			return result, nil
		}
		result, err := compute()
		if err != nil {
			return nil, err
		}
		c.put(key, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*models.HolisticAnalysis), false, nil
}

// get returns the entry for key when present and within its TTL, promoting
// it to most recently used. Expired entries are removed.
func (c *AnalysisCache) get(key string) *models.HolisticAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil
	}
	entry := elem.Value.(*cacheEntry)
	if c.clock().Sub(entry.createdAt) > c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil
	}
	c.order.MoveToFront(elem)
	return entry.result
}

func (c *AnalysisCache) put(key string, result *models.HolisticAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).result = result
		elem.Value.(*cacheEntry).createdAt = c.clock()
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{
		key:       key,
		result:    result,
		createdAt: c.clock(),
	})

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Flush discards all entries.
func (c *AnalysisCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len reports the number of entries, including any not yet expired.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
