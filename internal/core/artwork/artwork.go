// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package artwork implements the gallery's artwork catalogue.

It owns the record schema, the mapping of content-rating categories onto
pre-filtered store views, character filtering, identifier listing, batch
metadata lookup, aggregate statistics and the bulk upsert used by the sync
producer.

Core Responsibility:

  - Schema: Defines [Record] and its nested image and moderation objects.
  - Discovery: Lists identifiers per [Category] narrowed by a character [Predicate].
  - Analytics: Counts records per category and tracks the latest upload.
  - Sync: Replaces or inserts records keyed by art_id.

Records are never deleted; a sync of an existing art_id fully replaces it.
*/
package artwork

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/taibuivan/gallery/pkg/pointer"
)

// # Core Entities

// Record is a single artwork as produced by the sync pipeline.
//
// Optional fields are pointers so that a value absent on input stays absent
// on output; a decoded record re-encodes to the same document.
type Record struct {
	ArtID           int64       `json:"art_id"`
	Title           string      `json:"title"`
	TagString       string      `json:"tag_str"`
	Characters      []string    `json:"characters"`
	ViewCount       int32       `json:"view_count"`
	LikeCount       int32       `json:"like_count"`
	LoveCount       int32       `json:"love_count"`
	ArtistID        int64       `json:"artist_id"`
	UploadTimestamp int64       `json:"upload_timestamp"` // Unix seconds
	Is404           *bool       `json:"is_404,omitempty"`
	SanityLevel     *int32      `json:"sl,omitempty"`
	Images          *[]Image    `json:"images,omitempty"`
	Moderate        *Moderation `json:"moderate,omitempty"`

	missing []string
}

// Image is one page of an artwork.
type Image struct {
	URLs *ImageURLs  `json:"urls,omitempty"`
	NSFW *NSFWScores `json:"nsfw,omitempty"`
}

// ImageURLs holds the CDN locations of every rendition of an image.
type ImageURLs struct {
	ThumbMini string `json:"thumb_mini"`
	Small     string `json:"small"`
	Regular   string `json:"regular"`
	Original  string `json:"original"`

	missing []string
}

// NSFWScores are classifier probabilities, each in [0, 1].
type NSFWScores struct {
	Drawings float64 `json:"drawings"`
	Hentai   float64 `json:"hentai"`
	Neutral  float64 `json:"neutral"`
	Porn     float64 `json:"porn"`
	Sexy     float64 `json:"sexy"`

	missing []string
}

// Moderation is the outcome of manual or automatic review.
type Moderation struct {
	Type   *string `json:"type,omitempty"`   // SFW, NSFW or R18 (case-sensitive)
	Status *string `json:"status,omitempty"` // PASS, PUSH or anything else
	Reason *string `json:"reason,omitempty"`
}

// Moderation statuses that make a record visible in its category view.
const (
	StatusPass = "PASS"
	StatusPush = "PUSH"
)

// IsLive reports whether the record has not been marked as gone upstream.
func (r *Record) IsLive() bool {
	return !pointer.Val(r.Is404)
}

// ModerationType returns moderate.type or "" when absent.
func (r *Record) ModerationType() string {
	if r.Moderate == nil {
		return ""
	}
	return pointer.Val(r.Moderate.Type)
}

// ModerationStatus returns moderate.status or "" when absent.
func (r *Record) ModerationStatus() string {
	if r.Moderate == nil {
		return ""
	}
	return pointer.Val(r.Moderate.Status)
}

// IsPublished reports whether the moderation status admits the record into a view.
func (r *Record) IsPublished() bool {
	status := r.ModerationStatus()
	return status == StatusPass || status == StatusPush
}

// # Wire Format

// Keys that must be present and non-null in a decoded document. encoding/json
// zero-fills absent keys, so presence is recorded during decoding and checked
// by [ValidateRecords].
var (
	recordRequiredKeys = []string{
		"art_id", "title", "tag_str", "characters", "view_count",
		"like_count", "love_count", "artist_id", "upload_timestamp",
	}
	imageURLsRequiredKeys  = []string{"thumb_mini", "small", "regular", "original"}
	nsfwScoresRequiredKeys = []string{"drawings", "hentai", "neutral", "porn", "sexy"}
)

// MarshalJSON writes characters as [] rather than null.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := plain(r)
	if out.Characters == nil {
		out.Characters = []string{}
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	missing, err := missingKeys(data, recordRequiredKeys)
	if err != nil {
		return err
	}

	*r = Record(decoded)
	r.missing = missing
	return nil
}

func (u *ImageURLs) UnmarshalJSON(data []byte) error {
	type plain ImageURLs
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	missing, err := missingKeys(data, imageURLsRequiredKeys)
	if err != nil {
		return err
	}

	*u = ImageURLs(decoded)
	u.missing = missing
	return nil
}

func (n *NSFWScores) UnmarshalJSON(data []byte) error {
	type plain NSFWScores
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	missing, err := missingKeys(data, nsfwScoresRequiredKeys)
	if err != nil {
		return err
	}

	*n = NSFWScores(decoded)
	n.missing = missing
	return nil
}

// missingKeys lists the keys of an object that are absent or null.
func missingKeys(data []byte, keys []string) ([]string, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, err
	}

	var missing []string
	for _, key := range keys {
		raw, ok := present[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

// # Query Descriptors

// QueryOptions narrows an identifier listing. The zero value lists every
// record in the SFW view.
type QueryOptions struct {
	// Characters are name fragments; blank entries are ignored.
	Characters []string

	// Category selects the view. Empty or unknown values mean SFW.
	Category Category
}

// NewQueryOptions builds options from raw request input. The label is parsed
// with [ParseCategory], so it never fails.
func NewQueryOptions(categoryLabel string, characters ...string) QueryOptions {
	return QueryOptions{
		Characters: slices.Clone(characters),
		Category:   ParseCategory(categoryLabel),
	}
}

// View resolves the category to query, applying the SFW default.
func (o QueryOptions) View() Category {
	return ParseCategory(string(o.Category))
}

// Filter compiles the character fragments into a predicate.
func (o QueryOptions) Filter() Predicate {
	return CompileCharacterFilter(o.Characters)
}

// # Aggregates

// Statistics summarises the catalogue for the landing page.
type Statistics struct {
	Total            uint64 `json:"total"`
	SFW              uint64 `json:"sfw"`
	NSFW             uint64 `json:"nsfw"`
	R18              uint64 `json:"r18"`
	LatestUploadTime int64  `json:"latestUploadTime"`
}

// # Field Identifiers

// Field names used in validation errors.
const (
	FieldRecords         = "records"
	FieldArtID           = "art_id"
	FieldUploadTimestamp = "upload_timestamp"
	FieldImages          = "images"
	FieldIDs             = "ids"
	FieldFailedIDs       = "failed_ids"
)

func fieldPath(parts ...string) string {
	return strings.Join(parts, ".")
}
