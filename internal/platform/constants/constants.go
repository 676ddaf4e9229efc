// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Store Access: Per-operation deadlines and fan-out limits.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Caching: Redis key taxonomy and entry lifetimes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "gallery-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Sync bodies can be large, so this is more generous than a pure read API needs.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 55 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Store Access

const (
	// StoreOperationTimeout bounds every single read or write against PostgreSQL.
	StoreOperationTimeout = 10 * time.Second

	// SchemaBootstrapTimeout bounds view creation at startup.
	SchemaBootstrapTimeout = 15 * time.Second

	// SyncConcurrency caps the number of in-flight upserts for one sync request.
	SyncConcurrency = 16

	// MaxSyncBodyBytes limits the size of a sync payload.
	MaxSyncBodyBytes = 64 << 20
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisKeyGeneration holds the catalog generation counter bumped on every sync.
	RedisKeyGeneration = "catalog:generation"

	RedisPrefixIDs        = "catalog:ids:"
	RedisPrefixStatistics = "catalog:stats:"

	// IDListCacheTTL is how long a cached identifier list stays valid.
	IDListCacheTTL = 5 * time.Minute

	// StatisticsCacheTTL is how long cached statistics stay valid.
	StatisticsCacheTTL = 1 * time.Minute
)
