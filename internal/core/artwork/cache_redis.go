// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/gallery/internal/platform/constants"
)

// RedisCache keeps identifier lists and statistics in Redis.
//
// Every key embeds the current catalogue generation. A sync bumps the
// generation, so stale entries are never read again and simply expire.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache creates a new Redis-backed [Cache].
func NewRedisCache(client *redis.Client, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (cache *RedisCache) IDs(ctx context.Context, category Category, filter Predicate) ([]int64, Slot, bool) {
	generation, ok := cache.generation(ctx)
	if !ok {
		return nil, "", false
	}

	slot := Slot(fmt.Sprintf("%s%s:%s:%s", constants.RedisPrefixIDs, generation, strings.ToLower(string(category)), filter.Key()))

	var ids []int64
	if !cache.get(ctx, string(slot), &ids) {
		return nil, slot, false
	}
	return ids, slot, true
}

func (cache *RedisCache) StoreIDs(ctx context.Context, slot Slot, ids []int64) {
	if slot == "" {
		return
	}
	cache.set(ctx, string(slot), ids, constants.IDListCacheTTL)
}

func (cache *RedisCache) Statistics(ctx context.Context) (Statistics, Slot, bool) {
	generation, ok := cache.generation(ctx)
	if !ok {
		return Statistics{}, "", false
	}

	slot := Slot(constants.RedisPrefixStatistics + generation)

	var statistics Statistics
	if !cache.get(ctx, string(slot), &statistics) {
		return Statistics{}, slot, false
	}
	return statistics, slot, true
}

func (cache *RedisCache) StoreStatistics(ctx context.Context, slot Slot, statistics Statistics) {
	if slot == "" {
		return
	}
	cache.set(ctx, string(slot), statistics, constants.StatisticsCacheTTL)
}

func (cache *RedisCache) Invalidate(ctx context.Context) {
	if err := cache.client.Incr(ctx, constants.RedisKeyGeneration).Err(); err != nil {
		cache.logger.WarnContext(ctx, "cache_invalidate_failed", slog.Any("error", err))
	}
}

// # Key Construction

// generation reads the catalogue generation. An unreadable counter yields no
// slot at all: guessing "0" could resurrect entries from before a sync.
func (cache *RedisCache) generation(ctx context.Context) (string, bool) {
	generation, err := cache.client.Get(ctx, constants.RedisKeyGeneration).Result()
	if errors.Is(err, redis.Nil) {
		return "0", true
	}
	if err != nil {
		cache.logger.WarnContext(ctx, "cache_generation_read_failed", slog.Any("error", err))
		return "", false
	}
	return generation, true
}

// # Encoding

func (cache *RedisCache) get(ctx context.Context, key string, target any) bool {
	payload, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		cache.logger.WarnContext(ctx, "cache_read_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		cache.logger.WarnContext(ctx, "cache_entry_corrupt", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (cache *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := cache.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		cache.logger.WarnContext(ctx, "cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}
