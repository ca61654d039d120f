// package sourcecache caches fetched source files in Redis so a batch grade
// run does not refetch the same repository content per student pass
package sourcecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
)

const (
	fileKeyPrefix = "source:file:"
	repoKeyPrefix = "source:repo:"
	pathKeyPrefix = "source:path:"
)

var _ secondary.SourceFetcher = (*CachedFetcher)(nil)

type cachedFile struct {
	Content string `json:"content"`
	Found   bool   `json:"found"`
}

// CachedFetcher decorates a SourceFetcher with a Redis read-through cache.
// Only successful lookups are cached; transport errors always fall through
// to the next call.
type CachedFetcher struct {
	next        secondary.SourceFetcher
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

// NewCachedFetcher creates a new caching source fetcher
func NewCachedFetcher(next secondary.SourceFetcher, redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedFetcher{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// FetchFile returns cached content when present, otherwise delegates and
// caches the result including negative lookups
func (c *CachedFetcher) FetchFile(ctx context.Context, owner, repo, path string) (string, bool, error) {
	key := fmt.Sprintf("%s%s/%s/%s", fileKeyPrefix, owner, repo, path)

	cached, err := c.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var entry cachedFile
		if err := json.Unmarshal(cached, &entry); err == nil {
			return entry.Content, entry.Found, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("Source cache read failed", "key", key, "error", err)
	}

	content, found, err := c.next.FetchFile(ctx, owner, repo, path)
	if err != nil {
		return "", false, err
	}

	entryJSON, err := json.Marshal(cachedFile{Content: content, Found: found})
	if err == nil {
		if err := c.redisClient.Set(ctx, key, entryJSON, c.ttl).Err(); err != nil {
			c.logger.Warn("Source cache write failed", "key", key, "error", err)
		}
	}

	return content, found, nil
}

// RepoExists delegates with a cached boolean result
func (c *CachedFetcher) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	key := fmt.Sprintf("%s%s/%s", repoKeyPrefix, owner, repo)
	return c.cachedBool(ctx, key, func() (bool, error) {
		return c.next.RepoExists(ctx, owner, repo)
	})
}

// PathExists delegates with a cached boolean result
func (c *CachedFetcher) PathExists(ctx context.Context, owner, repo, path string) (bool, error) {
	key := fmt.Sprintf("%s%s/%s/%s", pathKeyPrefix, owner, repo, path)
	return c.cachedBool(ctx, key, func() (bool, error) {
		return c.next.PathExists(ctx, owner, repo, path)
	})
}

func (c *CachedFetcher) cachedBool(ctx context.Context, key string, load func() (bool, error)) (bool, error) {
	cached, err := c.redisClient.Get(ctx, key).Result()
	if err == nil {
		return cached == "1", nil
	}
	if err != redis.Nil {
		c.logger.Warn("Source cache read failed", "key", key, "error", err)
	}

	value, err := load()
	if err != nil {
		return false, err
	}

	stored := "0"
	if value {
		stored = "1"
	}
	if err := c.redisClient.Set(ctx, key, stored, c.ttl).Err(); err != nil {
		c.logger.Warn("Source cache write failed", "key", key, "error", err)
	}

	return value, nil
}
