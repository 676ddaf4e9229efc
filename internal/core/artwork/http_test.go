// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gallery/internal/core/artwork"
)

const testSyncToken = "s3cret"

func newTestRouter(repository *memoryRepository) http.Handler {
	handler := artwork.NewHandler(artwork.NewService(repository, nil), testSyncToken)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func serve(t *testing.T, router http.Handler, request *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder, body
}

// # Discovery

/*
TestHandler_ListAll returns identifiers of the requested category and characters.
*/
func TestHandler_ListAll(t *testing.T) {
	router := newTestRouter(newMemoryRepository(catalogue()...))

	recorder, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/all?type=sfw&character=miku&character=luka", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []any{3.0, 1.0}, body["data"])
}

/*
TestHandler_ListAll_EmptyResult encodes an empty list rather than null.
*/
func TestHandler_ListAll_EmptyResult(t *testing.T) {
	router := newTestRouter(newMemoryRepository())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/all", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[]}`, recorder.Body.String())
}

/*
TestHandler_ListAll_StoreFailure answers 500 with the error envelope.
*/
func TestHandler_ListAll_StoreFailure(t *testing.T) {
	repository := newMemoryRepository()
	repository.failures["ListIDs"] = errStoreDown

	recorder, body := serve(t, newTestRouter(repository), httptest.NewRequest(http.MethodGet, "/api/all?type=r18", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, recorder.Body.String(), errStoreDown.Error())
}

/*
TestHandler_ListByCharacter uses the path segment as the only filter.
*/
func TestHandler_ListByCharacter(t *testing.T) {
	router := newTestRouter(newMemoryRepository(catalogue()...))

	tests := []struct {
		name   string
		target string
		want   []any
	}{
		{"Plain", "/api/character/Miku?type=NSFW", []any{4.0}},
		{"Escaped space", "/api/character/Kagamine%20Len", []any{2.0}},
		{"Query parameter ignored", "/api/character/Luka?character=Miku", []any{3.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := serve(t, router, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.want, body["data"])
		})
	}
}

/*
TestHandler_ImageInfo returns records aligned with the requested ids.
*/
func TestHandler_ImageInfo(t *testing.T) {
	router := newTestRouter(newMemoryRepository(catalogue()...))

	recorder, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/image-info?ids[]=2&ids[]=404&ids[]=1", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Equal(t, 2.0, data[0].(map[string]any)["art_id"])
	assert.Equal(t, 1.0, data[1].(map[string]any)["art_id"])
}

/*
TestHandler_ImageInfo_BadRequest rejects missing or malformed ids.
*/
func TestHandler_ImageInfo_BadRequest(t *testing.T) {
	repository := newMemoryRepository(catalogue()...)
	router := newTestRouter(repository)

	for _, target := range []string{
		"/api/image-info",
		"/api/image-info?ids[]=one",
		"/api/image-info?ids[]=1&ids[0]=2",
	} {
		recorder, body := serve(t, router, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code, target)
		assert.Equal(t, "BAD_REQUEST", body["code"], target)
	}
	assert.Zero(t, repository.callCount("FindByIDs"))
}

/*
TestHandler_Statistics answers 200 even when some reads fail.
*/
func TestHandler_Statistics(t *testing.T) {
	repository := newMemoryRepository(catalogue()...)
	repository.failures["CountTotal"] = errStoreDown

	recorder := httptest.NewRecorder()
	newTestRouter(repository).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t,
		`{"data":{"artwork":{"total":0,"sfw":4,"nsfw":1,"r18":1,"latestUploadTime":800}}}`,
		recorder.Body.String(),
	)
}

// # Sync

func syncRequest(token, body string) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/api/db/sync", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return request
}

const syncPayload = `[
	{"art_id": 100, "title": "first", "tag_str": "vocaloid", "characters": ["Miku"],
	 "view_count": 3, "like_count": 2, "love_count": 1, "artist_id": 7, "upload_timestamp": 10,
	 "moderate": {"type": "SFW", "status": "PASS"}},
	{"art_id": 101, "title": "second", "tag_str": "", "characters": [],
	 "view_count": 0, "like_count": 0, "love_count": 0, "artist_id": 7, "upload_timestamp": 20}
]`

/*
TestHandler_Sync stores the batch and acknowledges with "ok".
*/
func TestHandler_Sync(t *testing.T) {
	repository := newMemoryRepository()

	recorder, body := serve(t, newTestRouter(repository), syncRequest(testSyncToken, syncPayload))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"message": "ok"}, body)
	assert.Len(t, repository.snapshot(), 2)
}

/*
TestHandler_Sync_TokenRejected answers 400 and never writes.
*/
func TestHandler_Sync_TokenRejected(t *testing.T) {
	tests := []struct {
		name    string
		request func() *http.Request
	}{
		{"Wrong token", func() *http.Request { return syncRequest("guess", syncPayload) }},
		{"Missing header", func() *http.Request { return syncRequest("", syncPayload) }},
		{"Other scheme", func() *http.Request {
			request := syncRequest("", syncPayload)
			request.Header.Set("Authorization", "Basic "+testSyncToken)
			return request
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newMemoryRepository()

			recorder, body := serve(t, newTestRouter(repository), tt.request())

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "INVALID_TOKEN", body["code"])
			assert.Zero(t, repository.callCount("Upsert"))
		})
	}
}

/*
TestHandler_Sync_BadPayload rejects undecodable and invalid batches before writing.
*/
func TestHandler_Sync_BadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Not JSON", `{"art_id":`},
		{"Object instead of array", `{"art_id": 1}`},
		{"Invalid record", `[{"art_id": -5, "upload_timestamp": 1}]`},
		{"Missing required keys", `[{"art_id": 7}]`},
		{"Null characters", strings.Replace(syncPayload, `"characters": []`, `"characters": null`, 1)},
		{"Trailing data", syncPayload + ` {"art_id": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newMemoryRepository()

			recorder, body := serve(t, newTestRouter(repository), syncRequest(testSyncToken, tt.body))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
			assert.Zero(t, repository.callCount("Upsert"))
		})
	}
}

/*
TestHandler_Sync_MissingKeysReported names every absent required key.
*/
func TestHandler_Sync_MissingKeysReported(t *testing.T) {
	repository := newMemoryRepository()

	recorder, body := serve(t, newTestRouter(repository), syncRequest(testSyncToken, `[{"art_id": 7, "title": "t"}]`))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var fields []string
	for _, detail := range body["details"].([]any) {
		fields = append(fields, detail.(map[string]any)["field"].(string))
	}
	assert.Equal(t, []string{
		"records[0].tag_str",
		"records[0].characters",
		"records[0].view_count",
		"records[0].like_count",
		"records[0].love_count",
		"records[0].artist_id",
		"records[0].upload_timestamp",
	}, fields)
	assert.Empty(t, repository.snapshot())
}

/*
TestHandler_Sync_PartialFailure reports the ids that were not written.
*/
func TestHandler_Sync_PartialFailure(t *testing.T) {
	repository := newMemoryRepository()
	repository.upsertFailures[101] = errStoreDown

	recorder, body := serve(t, newTestRouter(repository), syncRequest(testSyncToken, syncPayload))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "SYNC_FAILED", body["code"])
	assert.Equal(t, map[string]any{"failed_ids": []any{101.0}}, body["meta"])
	assert.Len(t, repository.snapshot(), 1)
}
