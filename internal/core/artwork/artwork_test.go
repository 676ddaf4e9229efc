// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gallery/internal/core/artwork"
)

/*
TestRecord_OptionalFieldsRoundTrip ensures absent optional fields stay absent.
*/
func TestRecord_OptionalFieldsRoundTrip(t *testing.T) {
	documents := map[string]string{
		"Minimal": `{
			"art_id": 1, "title": "t", "tag_str": "", "characters": [],
			"view_count": 0, "like_count": 0, "love_count": 0,
			"artist_id": 9, "upload_timestamp": 1700000000
		}`,
		"Full": `{
			"art_id": 2, "title": "t", "tag_str": "a b", "characters": ["Miku"],
			"view_count": 5, "like_count": 4, "love_count": 3,
			"artist_id": 9, "upload_timestamp": 1700000000,
			"is_404": false, "sl": 2,
			"images": [{
				"urls": {"thumb_mini": "m", "small": "s", "regular": "r", "original": "o"},
				"nsfw": {"drawings": 0.1, "hentai": 0, "neutral": 0.9, "porn": 0, "sexy": 0}
			}],
			"moderate": {"type": "SFW", "status": "PASS"}
		}`,
		"Empty images and moderation": `{
			"art_id": 3, "title": "", "tag_str": "", "characters": ["x"],
			"view_count": 0, "like_count": 0, "love_count": 0,
			"artist_id": 0, "upload_timestamp": 0,
			"images": [], "moderate": {}
		}`,
	}

	for name, document := range documents {
		t.Run(name, func(t *testing.T) {
			var record artwork.Record
			require.NoError(t, json.Unmarshal([]byte(document), &record))

			encoded, err := json.Marshal(&record)
			require.NoError(t, err)
			assert.JSONEq(t, document, string(encoded))
		})
	}
}

/*
TestRecord_NilCharactersEncodeAsEmpty never writes characters as null.
*/
func TestRecord_NilCharactersEncodeAsEmpty(t *testing.T) {
	encoded, err := json.Marshal(&artwork.Record{ArtID: 4})
	require.NoError(t, err)

	var document map[string]any
	require.NoError(t, json.Unmarshal(encoded, &document))
	assert.Equal(t, []any{}, document["characters"])
}

/*
TestRecord_Accessors reads moderation through nil-safe accessors.
*/
func TestRecord_Accessors(t *testing.T) {
	record := &artwork.Record{}

	assert.True(t, record.IsLive())
	assert.Empty(t, record.ModerationType())
	assert.Empty(t, record.ModerationStatus())
	assert.False(t, record.IsPublished())

	record = published(1, 1, artwork.CategoryR18)
	assert.Equal(t, "R18", record.ModerationType())
	assert.True(t, record.IsPublished())
}

/*
TestQueryOptions_Defaults resolves the zero value to an unfiltered SFW listing.
*/
func TestQueryOptions_Defaults(t *testing.T) {
	var options artwork.QueryOptions

	assert.Equal(t, artwork.CategorySFW, options.View())
	assert.True(t, options.Filter().MatchesAll())

	names := []string{"Miku"}
	options = artwork.NewQueryOptions("nsfw", names...)
	names[0] = "changed"

	assert.Equal(t, artwork.CategoryNSFW, options.Category)
	assert.Equal(t, []string{"Miku"}, options.Characters)
}
