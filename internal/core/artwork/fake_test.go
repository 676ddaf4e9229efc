// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork_test

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/taibuivan/gallery/internal/core/artwork"
	"github.com/taibuivan/gallery/pkg/pointer"
)

var errStoreDown = errors.New("store unavailable")

// memoryRepository evaluates categories and predicates in memory the same
// way the database views do.
type memoryRepository struct {
	mu      sync.Mutex
	records map[int64][]byte
	calls   map[string]int

	// failures are keyed by operation name, e.g. "CountTotal" or "CountByCategory/NSFW".
	failures map[string]error

	// upsertFailures fail Upsert for specific art_ids.
	upsertFailures map[int64]error

	// hooks run when an operation is entered, before it reads anything.
	hooks map[string]func()
}

func newMemoryRepository(records ...*artwork.Record) *memoryRepository {
	repository := &memoryRepository{
		records:        make(map[int64][]byte),
		calls:          make(map[string]int),
		failures:       make(map[string]error),
		upsertFailures: make(map[int64]error),
		hooks:          make(map[string]func()),
	}
	for _, record := range records {
		if err := repository.Upsert(context.Background(), record); err != nil {
			panic(err)
		}
	}
	repository.calls = make(map[string]int)
	return repository
}

func (m *memoryRepository) enter(operation string) error {
	m.mu.Lock()
	m.calls[operation]++
	hook, err := m.hooks[operation], m.failures[operation]
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (m *memoryRepository) callCount(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[operation]
}

func (m *memoryRepository) snapshot() []*artwork.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]*artwork.Record, 0, len(m.records))
	for _, document := range m.records {
		record := &artwork.Record{}
		if err := json.Unmarshal(document, record); err != nil {
			panic(err)
		}
		records = append(records, record)
	}
	return records
}

func (m *memoryRepository) ListIDs(ctx context.Context, category artwork.Category, filter artwork.Predicate) ([]int64, error) {
	if err := m.enter("ListIDs"); err != nil {
		return nil, err
	}

	var matched []*artwork.Record
	for _, record := range m.snapshot() {
		if category.Admits(record) && filter.Match(record.Characters) {
			matched = append(matched, record)
		}
	}

	slices.SortFunc(matched, func(a, b *artwork.Record) int {
		if order := cmp.Compare(b.UploadTimestamp, a.UploadTimestamp); order != 0 {
			return order
		}
		return cmp.Compare(a.ArtID, b.ArtID)
	})

	ids := make([]int64, len(matched))
	for i, record := range matched {
		ids[i] = record.ArtID
	}
	return ids, nil
}

func (m *memoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]*artwork.Record, error) {
	if err := m.enter("FindByIDs"); err != nil {
		return nil, err
	}

	var found []*artwork.Record
	for _, record := range m.snapshot() {
		if slices.Contains(ids, record.ArtID) {
			found = append(found, record)
		}
	}
	return found, nil
}

func (m *memoryRepository) LatestUploadTimestamp(ctx context.Context) (int64, error) {
	if err := m.enter("LatestUploadTimestamp"); err != nil {
		return 0, err
	}

	var latest int64
	for _, record := range m.snapshot() {
		latest = max(latest, record.UploadTimestamp)
	}
	return latest, nil
}

func (m *memoryRepository) CountByCategory(ctx context.Context, category artwork.Category) (uint64, error) {
	if err := m.enter("CountByCategory/" + string(category)); err != nil {
		return 0, err
	}

	var count uint64
	for _, record := range m.snapshot() {
		if category.Admits(record) {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepository) CountTotal(ctx context.Context) (uint64, error) {
	if err := m.enter("CountTotal"); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.records)), nil
}

func (m *memoryRepository) Upsert(ctx context.Context, record *artwork.Record) error {
	if err := m.enter("Upsert"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	document, err := json.Marshal(record)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.upsertFailures[record.ArtID]; err != nil {
		return err
	}
	m.records[record.ArtID] = document
	return nil
}

// recordingCache is a map-backed cache that counts writes. Like the Redis
// cache, slots embed a generation that Invalidate bumps.
type recordingCache struct {
	mu               sync.Mutex
	generation       int
	ids              map[artwork.Slot][]int64
	statistics       map[artwork.Slot]artwork.Statistics
	statisticsWrites int
	invalidations    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		ids:        make(map[artwork.Slot][]int64),
		statistics: make(map[artwork.Slot]artwork.Statistics),
	}
}

func (c *recordingCache) IDs(_ context.Context, category artwork.Category, filter artwork.Predicate) ([]int64, artwork.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := artwork.Slot(fmt.Sprintf("%d/%s/%s", c.generation, category, filter.Key()))
	ids, ok := c.ids[slot]
	return ids, slot, ok
}

func (c *recordingCache) StoreIDs(_ context.Context, slot artwork.Slot, ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[slot] = ids
}

func (c *recordingCache) Statistics(context.Context) (artwork.Statistics, artwork.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := artwork.Slot(fmt.Sprintf("%d/statistics", c.generation))
	statistics, ok := c.statistics[slot]
	return statistics, slot, ok
}

func (c *recordingCache) StoreStatistics(_ context.Context, slot artwork.Slot, statistics artwork.Statistics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statistics[slot] = statistics
	c.statisticsWrites++
}

func (c *recordingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidations++
}

// # Fixtures

func published(id int64, uploaded int64, category artwork.Category, characters ...string) *artwork.Record {
	return &artwork.Record{
		ArtID:           id,
		Title:           "artwork",
		Characters:      characters,
		UploadTimestamp: uploaded,
		Moderate: &artwork.Moderation{
			Type:   pointer.To(string(category)),
			Status: pointer.To(artwork.StatusPass),
		},
	}
}

func catalogue() []*artwork.Record {
	gone := published(7, 700, artwork.CategorySFW, "Hatsune Miku")
	gone.Is404 = pointer.To(true)

	pending := published(8, 800, artwork.CategorySFW, "Hatsune Miku")
	pending.Moderate.Status = pointer.To("PENDING")

	return []*artwork.Record{
		published(1, 100, artwork.CategorySFW, "Hatsune Miku"),
		published(2, 300, artwork.CategorySFW, "Kagamine Rin", "Kagamine Len"),
		published(3, 300, artwork.CategorySFW, "Megurine Luka"),
		published(4, 200, artwork.CategoryNSFW, "Hatsune Miku"),
		published(5, 500, artwork.CategoryR18, "Kaito"),
		published(6, 50, artwork.CategorySFW),
		gone,
		pending,
	}
}
