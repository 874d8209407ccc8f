// internal/retrieval/cache.go
package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"rag-workbench/internal/common/metrics"
	"rag-workbench/internal/filter"

	"github.com/redis/go-redis/v9"
)

// passageCache keeps recent Retrieve responses so repeated identical
// lookups in a session skip the platform round-trip.
type passageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newPassageCache(client *redis.Client, ttl time.Duration) *passageCache {
	return &passageCache{client: client, ttl: ttl}
}

func cacheKey(q Query) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s",
		q.KnowledgeBaseID, q.Text, q.TopK, filter.Fingerprint(q.Filter))))
	return "retrieve:" + hex.EncodeToString(sum[:])
}

func (c *passageCache) get(ctx context.Context, q Query) ([]Passage, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, cacheKey(q)).Result()
	if err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	var passages []Passage
	if err := json.Unmarshal([]byte(val), &passages); err != nil {
		metrics.CacheHits.WithLabelValues("corrupt").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return passages, true
}

func (c *passageCache) put(ctx context.Context, q Query, passages []Passage) {
	if c == nil || c.client == nil {
		return
	}
	body, err := json.Marshal(passages)
	if err != nil {
		return
	}
	// Best effort; a failed cache write never fails the retrieval.
	c.client.Set(ctx, cacheKey(q), body, c.ttl)
}
