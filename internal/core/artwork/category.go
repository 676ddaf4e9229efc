// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/gallery/internal/platform/database/schema"
)

// # Content-Rating Categories

// Category partitions published records by moderation outcome.
type Category string

const (
	// CategorySFW is safe for all audiences. It is also the fallback.
	CategorySFW Category = "SFW"

	// CategoryNSFW is suggestive content.
	CategoryNSFW Category = "NSFW"

	// CategoryR18 is explicit adult content.
	CategoryR18 Category = "R18"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySFW, CategoryNSFW, CategoryR18}
}

// ParseCategory maps a user-supplied label onto a [Category], ignoring case.
// Unknown or empty labels fall back to [CategorySFW]; this never fails.
func ParseCategory(label string) Category {
	// Casers are stateful, so one is built per call.
	switch Category(cases.Upper(language.Und).String(label)) {
	case CategoryNSFW:
		return CategoryNSFW
	case CategoryR18:
		return CategoryR18
	default:
		return CategorySFW
	}
}

// IsValid reports whether c is one of the known categories, compared exactly.
func (c Category) IsValid() bool {
	switch c {
	case CategorySFW, CategoryNSFW, CategoryR18:
		return true
	}
	return false
}

// View returns the name of the store view that holds this category's records.
// Invalid categories resolve to the SFW view.
func (c Category) View() string {
	switch c {
	case CategoryNSFW:
		return schema.ViewArtworksNSFW
	case CategoryR18:
		return schema.ViewArtworksR18
	default:
		return schema.ViewArtworksSFW
	}
}

// CategoryView resolves a raw label straight to a view name.
func CategoryView(label string) string {
	return ParseCategory(label).View()
}

// Admits reports whether record belongs to this category's view: it is live,
// its moderation type equals the category exactly and its status is PASS or PUSH.
func (c Category) Admits(record *Record) bool {
	return record.IsLive() &&
		record.ModerationType() == string(c) &&
		record.IsPublished()
}
