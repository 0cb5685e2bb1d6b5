package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/quiz"
)

const defaultCacheTTL = 30 * time.Minute

// CachedExtraction is the per-file pipeline output worth reusing when
// the same bytes are uploaded again.
type CachedExtraction struct {
	Format     detect.Format   `json:"detectedFormat"`
	Confidence float64         `json:"confidence"`
	Questions  []quiz.Question `json:"questions"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// FileCache lets the pipeline skip re-extraction of identical uploads.
type FileCache interface {
	Get(ctx context.Context, key string) (*CachedExtraction, error)
	Set(ctx context.Context, key string, value CachedExtraction) error
}

// Cache is a Redis-backed FileCache keyed by content digest.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ FileCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// CacheKey derives the cache key from the file's bytes, so renamed but
// identical uploads still hit.
func CacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "extraction:" + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (*CachedExtraction, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var cached CachedExtraction
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func (c *Cache) Set(ctx context.Context, key string, value CachedExtraction) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
