package cache

import (
	"context"

	"github.com/rsilvagit/cyjobs/internal/logger"
)

// PageFetcher is anything that can fetch a page body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Fetcher serves pages from the cache and falls through to next on a miss.
// Cache failures are logged and never fail the fetch.
type Fetcher struct {
	cache *Cache
	next  PageFetcher
	log   logger.Logger
}

// NewFetcher wraps next with the cache.
func NewFetcher(c *Cache, next PageFetcher, log logger.Logger) *Fetcher {
	return &Fetcher{cache: c, next: next, log: log}
}

// Fetch returns the cached body for url or fetches and stores it.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok, err := f.cache.Get(ctx, url)
	if err != nil {
		f.log.Warn("cache lookup failed", logger.String("url", url), logger.Error(err))
	}
	if ok {
		f.log.Debug("cache hit", logger.String("url", url))
		return body, nil
	}

	body, err = f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, url, body); err != nil {
		f.log.Warn("cache store failed", logger.String("url", url), logger.Error(err))
	}
	return body, nil
}
