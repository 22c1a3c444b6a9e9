package rangeproof

import (
	"strconv"
	"sync"

	rcache "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheMaxCost     = 1e3
	DefaultCacheBufferItems = 64
)

// GeneratorCache memoizes BulletproofGens per (label, n). Concurrent misses on
// the same key derive the generators once.
type GeneratorCache struct {
	cache *rcache.Cache[string, *BulletproofGens]
	sfg   singleflight.Group
}

func NewGeneratorCache(maxEntries int64) (*GeneratorCache, error) {
	c, err := rcache.NewCache(&rcache.Config[string, *BulletproofGens]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        DefaultCacheBufferItems,
		IgnoreInternalCost: true,
		Cost: func(*BulletproofGens) int64 {
			return 1
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeneratorCache{cache: c}, nil
}

func (c *GeneratorCache) Load(label string, n int) (*BulletproofGens, error) {
	key := label + "#" + strconv.Itoa(n)
	if gens, found := c.cache.Get(key); found {
		return gens, nil
	}

	res, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		if gens, found := c.cache.Get(key); found {
			return gens, nil
		}
		gens, err := NewBulletproofGens(label, n)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, gens, 1)
		c.cache.Wait()
		return gens, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*BulletproofGens), nil
}

var (
	defaultCache     *GeneratorCache
	defaultCacheErr  error
	defaultCacheOnce sync.Once
)

// LoadBulletproofGens returns the process-wide shared generators for
// (label, n).
func LoadBulletproofGens(label string, n int) (*BulletproofGens, error) {
	defaultCacheOnce.Do(func() {
		defaultCache, defaultCacheErr = NewGeneratorCache(DefaultCacheMaxCost)
	})
	if defaultCacheErr != nil {
		return nil, defaultCacheErr
	}
	return defaultCache.Load(label, n)
}
