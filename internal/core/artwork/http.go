// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/gallery/internal/platform/apperr"
	"github.com/taibuivan/gallery/internal/platform/constants"
	"github.com/taibuivan/gallery/internal/platform/ctxutil"
	"github.com/taibuivan/gallery/internal/platform/middleware"
	requestutil "github.com/taibuivan/gallery/internal/platform/request"
	"github.com/taibuivan/gallery/internal/platform/respond"
	"github.com/taibuivan/gallery/pkg/query"
)

// # Handler Implementation

// Handler exposes the catalogue over HTTP.
type Handler struct {
	service   *Service
	syncToken string
}

// NewHandler constructs a new artwork [Handler]. syncToken guards the sync endpoint.
func NewHandler(service *Service, syncToken string) *Handler {
	return &Handler{service: service, syncToken: syncToken}
}

// RegisterRoutes mounts the artwork endpoints on router.
//
// # Routing Strategy
//
//   - Discovery (Public): identifier listings, batch lookup and statistics.
//   - Sync (Bearer token): bulk upsert from the scraping pipeline.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// ## Public Discovery Endpoints
	router.Get("/all", handler.listAll)
	router.Get("/character/{name}", handler.listByCharacter)
	router.Get("/image-info", handler.imageInfo)
	router.Get("/statistics", handler.statistics)

	// ## Sync (Token Protected)
	router.With(middleware.RequireBearerToken(handler.syncToken)).Post("/db/sync", handler.sync)
}

// # Discovery Handlers

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	options := NewQueryOptions(params.Get("type"), params["character"]...)

	ids, err := handler.service.ListIDs(request.Context(), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ids)
}

// listByCharacter filters on the path name only; a character query parameter is ignored.
func (handler *Handler) listByCharacter(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "name")

	// chi routes on RawPath when the path carries escapes like %2F.
	if request.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest("Malformed character name"))
			return
		}
		name = unescaped
	}

	options := NewQueryOptions(request.URL.Query().Get("type"), name)

	ids, err := handler.service.ListIDs(request.Context(), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ids)
}

func (handler *Handler) imageInfo(writer http.ResponseWriter, request *http.Request) {
	ids, err := query.Int64List(request.URL.Query(), FieldIDs)
	if err != nil {
		message := "Query parameter ids must be a list of integers"
		if errors.Is(err, query.ErrMissing) {
			message = "Query parameter ids is required"
		}
		respond.Error(writer, request, apperr.BadRequest(message))
		return
	}

	records, err := handler.service.GetByIDs(request.Context(), ids)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, records)
}

// statisticsPayload nests the aggregates under "artwork".
type statisticsPayload struct {
	Artwork Statistics `json:"artwork"`
}

// statistics always answers 200; failed reads surface as zero fields.
func (handler *Handler) statistics(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, statisticsPayload{Artwork: handler.service.Statistics(request.Context())})
}

// # Sync Handler

func (handler *Handler) sync(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxSyncBodyBytes)

	var records []*Record
	if err := requestutil.DecodeJSON(request, &records); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "artwork_sync_received",
		slog.Int("count", len(records)),
	)

	if err := handler.service.SyncRecords(request.Context(), records); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "ok")
}
