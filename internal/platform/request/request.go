// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/gallery/internal/platform/apperr"
	"github.com/taibuivan/gallery/internal/platform/constants"
	"github.com/taibuivan/gallery/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

The body must hold exactly one JSON value; anything after it is rejected.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination value)

Returns:
  - error: PAYLOAD_TOO_LARGE if a [http.MaxBytesReader] limit was hit,
    validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(request.Body)

	if err := decoder.Decode(target); err != nil {
		return decodeError(err)
	}

	if err := decoder.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return decodeError(err)
		}
		return validate.ErrInvalidJSON
	}

	return nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.PayloadTooLarge(tooLarge.Limit)
	}
	return validate.ErrInvalidJSON
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
BearerToken extracts the token from an "Authorization: Bearer <token>" header.

A bare "Bearer" carries an empty token; HTTP strips the trailing space of
"Bearer " in transit, so both spellings are treated alike.

Returns:
  - string: The raw token (may be empty)
  - bool: false when the header is absent or uses another scheme
*/
func BearerToken(request *http.Request) (string, bool) {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	if header == "" {
		return "", false
	}

	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	return strings.TrimSpace(token), true
}
