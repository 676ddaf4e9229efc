// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/gallery/internal/platform/apperr"
)

// SQLSTATE codes the catalog cares about.
const (
	codeUndefinedTable = "42P01"
	codeQueryCanceled  = "57014"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
// The action label is kept in the cause for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	// 2. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 3. Everything else is a store failure surfaced as 500.
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUndefinedTable reports whether err was raised because a table or view is missing.
func IsUndefinedTable(err error) bool {
	return sqlState(err) == codeUndefinedTable
}

// IsStatementTimeout reports whether the server cancelled the statement (statement_timeout).
func IsStatementTimeout(err error) bool {
	return sqlState(err) == codeQueryCanceled
}

func sqlState(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code
	}
	return ""
}
