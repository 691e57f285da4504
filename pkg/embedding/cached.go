package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider wraps another EmbeddingProvider with an in-memory cache.
// Query rewrites repeat across turns of a session, so caching saves
// round-trips to the inference API.
type CachedProvider struct {
	inner EmbeddingProvider
	store *cache.Cache
}

func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) EmbeddingProvider {
	if ttl <= 0 {
		return inner
	}
	return &CachedProvider{
		inner: inner,
		store: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)
	if cached, found := p.store.Get(key); found {
		return cached.(*EmbeddingResponse), nil
	}

	resp, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	p.store.Set(key, resp, cache.DefaultExpiration)
	return resp, nil
}

func cacheKey(text, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
