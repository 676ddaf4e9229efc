// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the physical names of every table, view and column
// used by the stores, so that SQL text never hardcodes identifiers.
package schema

// GalleryArtworkTable represents the 'gallery.artworks' table.
//
// The full record is kept verbatim in Document; the remaining columns are
// projections of it maintained on every upsert so they can be indexed.
type GalleryArtworkTable struct {
	Table           string
	ArtID           string
	UploadTimestamp string
	Characters      string
	Is404           string
	ModerateType    string
	ModerateStatus  string
	Document        string
	SyncedAt        string
}

// GalleryArtwork is the schema definition for gallery.artworks.
var GalleryArtwork = GalleryArtworkTable{
	Table:           "gallery.artworks",
	ArtID:           "art_id",
	UploadTimestamp: "upload_timestamp",
	Characters:      "characters",
	Is404:           "is_404",
	ModerateType:    "moderate_type",
	ModerateStatus:  "moderate_status",
	Document:        "document",
	SyncedAt:        "synced_at",
}

// Columns lists the writable columns in insert order.
func (t GalleryArtworkTable) Columns() []string {
	return []string{t.ArtID, t.UploadTimestamp, t.Characters, t.Is404, t.ModerateType, t.ModerateStatus, t.Document}
}

// Category views over gallery.artworks. They share the base table's columns.
const (
	ViewArtworksSFW  = "gallery.artworks_sfw"
	ViewArtworksNSFW = "gallery.artworks_nsfw"
	ViewArtworksR18  = "gallery.artworks_r18"
)
