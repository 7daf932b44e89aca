// Package cache keeps resolved affiliate links in Redis so the redirect path can
// skip the database lookup.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/redis/go-redis/v9"
)

const linkKeyPrefix = "link:slug:"

type linkEntry struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

// LinkCache stores the redirect-relevant fields of links keyed by slug.
// Click counters are never cached.
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLinkCache(client *redis.Client, ttl time.Duration) *LinkCache {
	return &LinkCache{
		client: client,
		ttl:    ttl,
	}
}

func linkKey(slug string) string {
	return linkKeyPrefix + slug
}

// Get returns the cached link for slug. The boolean is false on a cache miss.
func (c *LinkCache) Get(ctx context.Context, slug string) (*entity.AffiliateLink, bool, error) {
	const op = "adapter.cache.LinkCache.Get"

	data, err := c.client.Get(ctx, linkKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	var e linkEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("%s: failed to decode link: %w", op, err)
	}

	return &entity.AffiliateLink{
		ID:       e.ID,
		Slug:     e.Slug,
		URL:      e.URL,
		IsActive: e.IsActive,
	}, true, nil
}

func (c *LinkCache) Set(ctx context.Context, link *entity.AffiliateLink) error {
	const op = "adapter.cache.LinkCache.Set"

	data, err := json.Marshal(linkEntry{
		ID:       link.ID,
		Slug:     link.Slug,
		URL:      link.URL,
		IsActive: link.IsActive,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to encode link: %w", op, err)
	}

	if err := c.client.Set(ctx, linkKey(link.Slug), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to set link: %w", op, err)
	}

	return nil
}

// Delete evicts the given slugs.
func (c *LinkCache) Delete(ctx context.Context, slugs ...string) error {
	const op = "adapter.cache.LinkCache.Delete"

	if len(slugs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, linkKey(slug))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: failed to delete links: %w", op, err)
	}

	return nil
}
