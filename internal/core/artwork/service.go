// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/gallery/internal/platform/apperr"
	"github.com/taibuivan/gallery/internal/platform/constants"
	"github.com/taibuivan/gallery/internal/platform/ctxutil"
	"github.com/taibuivan/gallery/internal/platform/dberr"
	"github.com/taibuivan/gallery/internal/platform/validate"
	"github.com/taibuivan/gallery/pkg/slice"
)

// # Service Layer

// Service orchestrates reads and syncs over the artwork [Repository].
type Service struct {
	repo  Repository
	cache Cache
}

// NewService constructs a new [Service]. A nil cache disables caching.
func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{repo: repo, cache: cache}
}

// # Identifier Listing

/*
ListIDs returns the identifiers of one category view, newest upload first.

Description: The category falls back to SFW and blank character names are
dropped. When no names remain the listing is not filtered at all.

Parameters:
  - ctx: context.Context
  - options: QueryOptions

Returns:
  - []int64: Matching art_ids (never nil)
  - error: Store failures
*/
func (service *Service) ListIDs(ctx context.Context, options QueryOptions) ([]int64, error) {
	category := options.View()
	filter := options.Filter()

	cached, slot, ok := service.cache.IDs(ctx, category, filter)
	if ok {
		return cached, nil
	}

	ids, err := service.repo.ListIDs(ctx, category, filter)
	if err != nil {
		if dberr.IsUndefinedTable(err) {
			ctxutil.GetLogger(ctx).ErrorContext(ctx, "category_view_missing", slog.String("view", category.View()))
		} else if dberr.IsStatementTimeout(err) {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "artwork_listing_timeout",
				slog.String("view", category.View()),
				slog.Int("characters", len(filter.Terms())),
			)
		}
		return nil, err
	}

	if ids == nil {
		ids = []int64{}
	}

	service.cache.StoreIDs(ctx, slot, ids)
	return ids, nil
}

// # Batch Lookup

/*
GetByIDs returns full records positionally aligned with the input.

Description: The output follows the order of ids, repeats a record as often
as its id repeats, and silently omits ids that are not stored. An empty
input returns immediately without touching the store.

Parameters:
  - ctx: context.Context
  - ids: []int64

Returns:
  - []*Record: Records in input order (never nil)
  - error: Store failures
*/
func (service *Service) GetByIDs(ctx context.Context, ids []int64) ([]*Record, error) {
	if len(ids) == 0 {
		return []*Record{}, nil
	}

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	found, err := service.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	byID := slice.IndexBy(found, func(record *Record) int64 { return record.ArtID })

	ordered := make([]*Record, 0, len(ids))
	for _, id := range ids {
		if record, ok := byID[id]; ok {
			ordered = append(ordered, record)
		}
	}

	return ordered, nil
}

// # Aggregates

// LatestUploadTimestamp returns the newest upload time, 0 for an empty store.
func (service *Service) LatestUploadTimestamp(ctx context.Context) (int64, error) {
	return service.repo.LatestUploadTimestamp(ctx)
}

// CountByCategory returns the number of records visible in a category view.
func (service *Service) CountByCategory(ctx context.Context, category Category) (uint64, error) {
	return service.repo.CountByCategory(ctx, ParseCategory(string(category)))
}

// CountTotal returns the number of stored records, live or not.
func (service *Service) CountTotal(ctx context.Context) (uint64, error) {
	return service.repo.CountTotal(ctx)
}

/*
Statistics gathers the five catalogue aggregates concurrently.

Description: The reads are independent and joined before returning. A failed
read is logged and its field stays 0; the call itself never fails. Only a
fully successful result is cached.

Parameters:
  - ctx: context.Context

Returns:
  - Statistics: Aggregates with zero defaults for failed reads
*/
func (service *Service) Statistics(ctx context.Context) Statistics {
	cached, slot, ok := service.cache.Statistics(ctx)
	if ok {
		return cached
	}

	statistics, complete := service.collectStatistics(ctx)
	if complete {
		service.cache.StoreStatistics(ctx, slot, statistics)
	}
	return statistics
}

func (service *Service) collectStatistics(ctx context.Context) (Statistics, bool) {
	var (
		statistics Statistics
		waitGroup  sync.WaitGroup
		failures   [5]error
	)

	count := func(slot int, target *uint64, read func(context.Context) (uint64, error)) {
		defer waitGroup.Done()
		*target, failures[slot] = read(ctx)
	}

	countCategory := func(category Category) func(context.Context) (uint64, error) {
		return func(ctx context.Context) (uint64, error) {
			return service.repo.CountByCategory(ctx, category)
		}
	}

	waitGroup.Add(5)
	go count(0, &statistics.Total, service.repo.CountTotal)
	go func() {
		defer waitGroup.Done()
		statistics.LatestUploadTime, failures[1] = service.repo.LatestUploadTimestamp(ctx)
	}()
	go count(2, &statistics.SFW, countCategory(CategorySFW))
	go count(3, &statistics.NSFW, countCategory(CategoryNSFW))
	go count(4, &statistics.R18, countCategory(CategoryR18))
	waitGroup.Wait()

	fields := [5]string{"total", "latestUploadTime", "sfw", "nsfw", "r18"}
	complete := true
	for slot, err := range failures {
		if err == nil {
			continue
		}
		complete = false
		ctxutil.GetLogger(ctx).WarnContext(ctx, "statistics_read_failed",
			slog.String("field", fields[slot]),
			slog.Any("error", err),
		)
	}

	// Defaults must hold even if a failing read also returned a value.
	if failures[0] != nil {
		statistics.Total = 0
	}
	if failures[1] != nil {
		statistics.LatestUploadTime = 0
	}
	if failures[2] != nil {
		statistics.SFW = 0
	}
	if failures[3] != nil {
		statistics.NSFW = 0
	}
	if failures[4] != nil {
		statistics.R18 = 0
	}

	return statistics, complete
}

// # Sync

// SyncError lists the records a sync failed to write. Records not listed
// were written; a batch is never rolled back.
type SyncError struct {
	FailedIDs []int64
	Attempted int
	Causes    map[int64]error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("artwork: %d of %d upserts failed", len(e.FailedIDs), e.Attempted)
}

/*
SyncRecords replaces or inserts every record, keyed by art_id.

Description: The whole batch is validated before any write. Upserts then run
concurrently with a bounded fan-out and no ordering between records. When
the same art_id appears more than once, the last occurrence wins. Writes are
detached from the caller's cancellation so that a client disconnect cannot
abandon a half-written batch; each write still has its own deadline.

Parameters:
  - ctx: context.Context
  - records: []*Record

Returns:
  - error: VALIDATION_ERROR for bad input, SYNC_FAILED (wrapping [*SyncError]) on store failures
*/
func (service *Service) SyncRecords(ctx context.Context, records []*Record) error {
	if err := ValidateRecords(records); err != nil {
		return err
	}

	batch := latestPerArtID(records)
	if len(batch) == 0 {
		return nil
	}

	writeCtx := ctxutil.Detached(ctx)

	var (
		group    errgroup.Group
		mu       sync.Mutex
		failures = make(map[int64]error)
	)
	group.SetLimit(constants.SyncConcurrency)

	for _, record := range batch {
		group.Go(func() error {
			if err := service.repo.Upsert(writeCtx, record); err != nil {
				mu.Lock()
				failures[record.ArtID] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	// Even a partial batch changed the catalogue.
	service.cache.Invalidate(writeCtx)

	logger := ctxutil.GetLogger(ctx)
	if len(failures) == 0 {
		logger.InfoContext(ctx, "artworks_synced", slog.Int("count", len(batch)))
		return nil
	}

	failedIDs := make([]int64, 0, len(failures))
	for id := range failures {
		failedIDs = append(failedIDs, id)
	}
	slices.Sort(failedIDs)

	syncErr := &SyncError{FailedIDs: failedIDs, Attempted: len(batch), Causes: failures}
	logger.ErrorContext(ctx, "artworks_sync_partial_failure",
		slog.Int("attempted", len(batch)),
		slog.Int("failed", len(failedIDs)),
		slog.Any("failed_ids", failedIDs),
	)

	return &apperr.AppError{
		Code:       "SYNC_FAILED",
		Message:    fmt.Sprintf("Failed to save %d of %d artworks", len(failedIDs), len(batch)),
		HTTPStatus: 500,
		Cause:      syncErr,
		Meta:       map[string]any{FieldFailedIDs: failedIDs},
	}
}

// latestPerArtID drops earlier duplicates, keeping first-seen order of the survivors.
func latestPerArtID(records []*Record) []*Record {
	last := make(map[int64]int, len(records))
	for i, record := range records {
		last[record.ArtID] = i
	}

	batch := make([]*Record, 0, len(last))
	for i, record := range records {
		if last[record.ArtID] == i {
			batch = append(batch, record)
		}
	}
	return batch
}

// # Validation

// ValidateRecords checks a sync batch before anything is written.
func ValidateRecords(records []*Record) error {
	validator := &validate.Validator{}

	for i, record := range records {
		prefix := FieldRecords + "[" + strconv.Itoa(i) + "]"

		if record == nil {
			validator.Custom(prefix, true, "Must not be null")
			continue
		}

		requireKeys(validator, prefix, record.missing)
		validator.Positive(fieldPath(prefix, FieldArtID), record.ArtID)
		validator.Custom(fieldPath(prefix, FieldUploadTimestamp), record.UploadTimestamp < 0, "Must not be negative")

		if record.Images == nil {
			continue
		}
		for j, image := range *record.Images {
			imagePrefix := fieldPath(prefix, FieldImages+"["+strconv.Itoa(j)+"]")
			if image.URLs != nil {
				requireKeys(validator, fieldPath(imagePrefix, "urls"), image.URLs.missing)
			}
			if image.NSFW == nil {
				continue
			}
			scorePrefix := fieldPath(imagePrefix, "nsfw")
			requireKeys(validator, scorePrefix, image.NSFW.missing)
			validator.
				Unit(fieldPath(scorePrefix, "drawings"), image.NSFW.Drawings).
				Unit(fieldPath(scorePrefix, "hentai"), image.NSFW.Hentai).
				Unit(fieldPath(scorePrefix, "neutral"), image.NSFW.Neutral).
				Unit(fieldPath(scorePrefix, "porn"), image.NSFW.Porn).
				Unit(fieldPath(scorePrefix, "sexy"), image.NSFW.Sexy)
		}
	}

	return validator.Err()
}

func requireKeys(validator *validate.Validator, prefix string, missing []string) {
	for _, key := range missing {
		validator.Custom(fieldPath(prefix, key), true, "Is required")
	}
}

// # Schema Bootstrap

// EnsureViews creates every category view. Failures are logged per category
// and do not stop the remaining views; the joined error is returned so the
// caller can decide how loud to be.
func EnsureViews(ctx context.Context, manager ViewManager, logger *slog.Logger) error {
	var errs []error
	for _, category := range Categories() {
		if err := manager.EnsureView(ctx, category); err != nil {
			logger.ErrorContext(ctx, "category_view_create_failed",
				slog.String("view", category.View()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", category.View(), err))
			continue
		}
		logger.DebugContext(ctx, "category_view_ready", slog.String("view", category.View()))
	}
	return errors.Join(errs...)
}
