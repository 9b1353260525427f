package ai

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"docmeta/internal/model"
)

const (
	DefaultCacheSize         = 1000
	DefaultCacheTTL          = 24 * time.Hour
	DefaultSharedCallTimeout = 2 * time.Minute
)

type cacheKey struct {
	FileName string
	FileType string
}

func (k cacheKey) String() string {
	return k.FileType + "\x00" + k.FileName
}

// CacheOptions bounds a CachedAnalyzer. CallTimeout caps a provider call
// shared by concurrent misses; it runs detached from any single caller.
type CacheOptions struct {
	Size        int
	TTL         time.Duration
	CallTimeout time.Duration
}

// CachedAnalyzer memoizes SuggestMetadata by (file name, file type). The preview
// is not part of the key: a repeated name and type returns the first stored
// result, as the same pointer. Failed calls are not stored.
type CachedAnalyzer struct {
	next        Analyzer
	cache       *expirable.LRU[cacheKey, *model.AIAnalysisResult]
	group       singleflight.Group
	callTimeout time.Duration

	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCachedAnalyzer wraps next. Counters are registered on reg when it is not nil.
func NewCachedAnalyzer(next Analyzer, opts CacheOptions, reg prometheus.Registerer) (*CachedAnalyzer, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultCacheSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultSharedCallTimeout
	}

	c := &CachedAnalyzer{
		next:        next,
		cache:       expirable.NewLRU[cacheKey, *model.AIAnalysisResult](opts.Size, nil, opts.TTL),
		callTimeout: opts.CallTimeout,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ai_cache_hits_total",
			Help: "AI analysis results served from cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ai_cache_misses_total",
			Help: "AI analysis requests that reached the provider.",
		}),
	}
	if reg != nil {
		for _, col := range []prometheus.Collector{c.hits, c.misses} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *CachedAnalyzer) SuggestMetadata(ctx context.Context, fileName, fileType, preview string) (*model.AIAnalysisResult, error) {
	key := cacheKey{FileName: fileName, FileType: fileType}
	if res, ok := c.cache.Get(key); ok {
		c.hits.Inc()
		return res, nil
	}

	// The shared call keeps ctx values (trace, logger) but not its cancellation,
	// so one caller going away does not fail the others waiting on the key.
	ch := c.group.DoChan(key.String(), func() (any, error) {
		if res, ok := c.cache.Get(key); ok {
			c.hits.Inc()
			return res, nil
		}
		c.misses.Inc()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.callTimeout)
		defer cancel()
		res, err := c.next.SuggestMetadata(sctx, fileName, fileType, preview)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*model.AIAnalysisResult), nil
	}
}

// SuggestTags is not cached.
func (c *CachedAnalyzer) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	return c.next.SuggestTags(ctx, title, description)
}

// Purge drops every cached result.
func (c *CachedAnalyzer) Purge() {
	c.cache.Purge()
}

func (c *CachedAnalyzer) Len() int {
	return c.cache.Len()
}
