// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// menu.go provides a Valkey-backed cache for public menu responses.
// The public menu page is served to every chat widget and QR-code scan,
// so a hit here skips the restaurant lookup and document serialization.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// menuKeyPrefix is the Valkey key prefix for cached menus.
	menuKeyPrefix = "menu:"

	// DefaultMenuTTL is how long a serialized menu stays cached.
	DefaultMenuTTL = 5 * time.Minute
)

// MenuCache manages public menu response caching in Valkey, keyed by
// restaurant slug.
type MenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMenuCache creates a menu cache backed by the given Valkey client.
func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	if ttl == 0 {
		ttl = DefaultMenuTTL
	}
	return &MenuCache{client: client, ttl: ttl}
}

// Get retrieves the cached menu payload for a slug. Returns false on miss.
func (mc *MenuCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := mc.client.Get(ctx, menuKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("menu cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("menu cache hit", "slug", slug)
	return val, true
}

// Set stores a serialized menu payload for a slug with the configured TTL.
func (mc *MenuCache) Set(ctx context.Context, slug string, payload []byte) {
	if err := mc.client.Set(ctx, menuKeyPrefix+slug, payload, mc.ttl).Err(); err != nil {
		slog.Warn("menu cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single cached menu. Called whenever a restaurant's
// menu document or slug changes.
func (mc *MenuCache) Invalidate(ctx context.Context, slug string) {
	if err := mc.client.Del(ctx, menuKeyPrefix+slug).Err(); err != nil {
		slog.Warn("menu cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("menu cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached menu by scanning for the prefix.
func (mc *MenuCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := mc.client.Scan(ctx, cursor, menuKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("menu cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := mc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("menu cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("menu cache fully cleared", "deleted", deleted)
	}
}
