// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/taibuivan/gallery/internal/platform/apperr"
	"github.com/taibuivan/gallery/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/gallery/internal/platform/request"
	"github.com/taibuivan/gallery/internal/platform/respond"
)

// RequireBearerToken blocks requests whose "Authorization: Bearer <token>" does not
// match expected. Rejections are reported as 400 and never reach the handler.
//
// # Flow
//  1. Extract the bearer token (missing header or other scheme fails).
//  2. Compare in constant time against the configured token.
//
// An empty expected token matches "Bearer " and the bare "Bearer" that
// arrives once the trailing space is stripped in transit.
func RequireBearerToken(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := requestutil.BearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.InvalidToken("Missing bearer token"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				ctxutil.GetLogger(request.Context()).Warn("bearer_token_rejected",
					slog.String("ip", RealIP(request)),
				)
				respond.Error(writer, request, apperr.InvalidToken("Invalid bearer token"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
