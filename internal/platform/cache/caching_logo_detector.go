// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"logoscan/internal/feature/logodetection/adapters/imagesource"
	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/feature/logodetection/usecase"
)

// CachingLogoDetector decorates a LogoDetector with Redis caching.
// Only successful results for remote identifiers (gs://, http(s)://) are cached.
// Local paths always reach the inner detector so deleted or modified files are reported as they are now.
type CachingLogoDetector struct {
	inner     usecase.LogoDetector
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.LogoDetector = (*CachingLogoDetector)(nil)

// NewCachingLogoDetector decorates a LogoDetector with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "logos".
func NewCachingLogoDetector(rdb *redis.Client, ttl time.Duration, inner usecase.LogoDetector, namespace string) *CachingLogoDetector {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "logos"
	}
	return &CachingLogoDetector{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// DetectLogos returns a cached result when present, otherwise calls the inner detector.
func (c *CachingLogoDetector) DetectLogos(ctx context.Context, fileName string) (entity.DetectionResult, error) {
	// Bypass cache if Redis is not configured or the identifier is a local path
	if c.rdb == nil || !imagesource.IsRemote(fileName) {
		return c.inner.DetectLogos(ctx, fileName)
	}

	key := c.cacheKey(fileName)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.DetectionResult
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the detection service
	out, err := c.inner.DetectLogos(ctx, fileName)
	if err != nil {
		return entity.DetectionResult{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate removes every cached result in the namespace.
func (c *CachingLogoDetector) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey generates a cache key for a file identifier.
// The identifier is hashed so that distinct identifiers never share a key.
func (c *CachingLogoDetector) cacheKey(fileName string) string {
	sum := sha256.Sum256([]byte(fileName))
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingLogoDetector) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
