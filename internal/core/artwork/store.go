// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import "context"

// Repository is the document store behind the catalogue.
//
// Implementations must be safe for concurrent use: statistics and sync fan
// out over a single shared instance.
type Repository interface {
	// ListIDs returns art_ids in the category view matching the predicate,
	// newest upload first.
	ListIDs(ctx context.Context, category Category, filter Predicate) ([]int64, error)

	// FindByIDs returns the stored records for the distinct ids, in any order.
	FindByIDs(ctx context.Context, ids []int64) ([]*Record, error)

	// LatestUploadTimestamp returns the newest upload_timestamp (ties by the
	// smallest art_id), or 0 when the store is empty.
	LatestUploadTimestamp(ctx context.Context) (int64, error)

	CountByCategory(ctx context.Context, category Category) (uint64, error)
	CountTotal(ctx context.Context) (uint64, error)

	// Upsert replaces the record with the same art_id or inserts it.
	Upsert(ctx context.Context, record *Record) error
}

// ViewManager creates the per-category views. Creation is idempotent.
type ViewManager interface {
	EnsureView(ctx context.Context, category Category) error
}
