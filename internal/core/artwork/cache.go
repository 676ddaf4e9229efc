// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import "context"

// Slot addresses one cache entry as of the catalogue generation observed at
// lookup. A value read from the store is written back to the same slot, so a
// sync that lands in between can never promote a pre-sync snapshot. The empty
// Slot is never written.
type Slot string

// Cache accelerates reads between syncs. Implementations swallow their own
// failures: a broken cache behaves like an empty one.
type Cache interface {
	IDs(ctx context.Context, category Category, filter Predicate) ([]int64, Slot, bool)
	StoreIDs(ctx context.Context, slot Slot, ids []int64)

	Statistics(ctx context.Context) (Statistics, Slot, bool)
	StoreStatistics(ctx context.Context, slot Slot, statistics Statistics)

	// Invalidate drops every cached entry after the catalogue changed.
	Invalidate(ctx context.Context)
}

// NopCache never hits. It is used when no Redis URL is configured.
type NopCache struct{}

func (NopCache) IDs(context.Context, Category, Predicate) ([]int64, Slot, bool) { return nil, "", false }
func (NopCache) StoreIDs(context.Context, Slot, []int64) {}
func (NopCache) Statistics(context.Context) (Statistics, Slot, bool) { return Statistics{}, "", false }
func (NopCache) StoreStatistics(context.Context, Slot, Statistics) {}
func (NopCache) Invalidate(context.Context) {}
