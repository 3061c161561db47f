package httpapi

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// Cache bounds for the document list. The list is rebuilt at most once per
// TTL; uploads and deletes invalidate it eagerly.
const (
	defaultCacheSize = 8
	defaultCacheTTL  = 30 * time.Second

	listCacheKey = "documents"
)

// documentListCache is a TTL cache for the document listing, so polling
// clients do not hit the store on every refresh.
type documentListCache struct {
	cache *expirable.LRU[string, []domain.Document]
}

func newDocumentListCache(size int, ttl time.Duration) *documentListCache {
	return &documentListCache{
		cache: expirable.NewLRU[string, []domain.Document](size, nil, ttl),
	}
}

func (c *documentListCache) Get() ([]domain.Document, bool) {
	return c.cache.Get(listCacheKey)
}

func (c *documentListCache) Set(docs []domain.Document) {
	c.cache.Add(listCacheKey, docs)
}

func (c *documentListCache) Invalidate() {
	c.cache.Remove(listCacheKey)
}
