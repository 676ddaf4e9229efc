// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/gallery/internal/platform/constants"
	"github.com/taibuivan/gallery/internal/platform/database/schema"
	"github.com/taibuivan/gallery/internal/platform/dberr"
)

// PostgresRepository stores each record as a JSONB document next to the
// indexed columns the category views and filters need.
type PostgresRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresRepository(db *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

func (repository *PostgresRepository) ListIDs(ctx context.Context, category Category, filter Predicate) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	query, args := listIDsQuery(category, filter)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_artwork_ids")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_artwork_ids")
	}

	return ids, nil
}

func (repository *PostgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1)`,
		schema.GalleryArtwork.ArtID, schema.GalleryArtwork.Document,
		schema.GalleryArtwork.Table, schema.GalleryArtwork.ArtID,
	)

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "find_artworks")
	}
	defer rows.Close()

	records := make([]*Record, 0, len(ids))
	for rows.Next() {
		var (
			artID    int64
			document []byte
		)
		if err := rows.Scan(&artID, &document); err != nil {
			return nil, dberr.Wrap(err, "scan_artwork")
		}

		// A document that no longer decodes is skipped rather than failing the batch.
		record := &Record{}
		if err := json.Unmarshal(document, record); err != nil {
			repository.logger.WarnContext(ctx, "artwork_document_undecodable",
				slog.Int64("art_id", artID),
				slog.Any("error", err),
			)
			continue
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_artworks")
	}

	return records, nil
}

func (repository *PostgresRepository) LatestUploadTimestamp(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	var timestamp int64
	err := repository.db.QueryRow(ctx, latestUploadQuery()).Scan(&timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, dberr.Wrap(err, "latest_upload_timestamp")
	}

	return timestamp, nil
}

func (repository *PostgresRepository) CountByCategory(ctx context.Context, category Category) (uint64, error) {
	return repository.count(ctx, category.View(), "count_"+strings.ToLower(string(category)))
}

func (repository *PostgresRepository) CountTotal(ctx context.Context) (uint64, error) {
	return repository.count(ctx, schema.GalleryArtwork.Table, "count_total")
}

func (repository *PostgresRepository) count(ctx context.Context, relation, action string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	var total int64
	if err := repository.db.QueryRow(ctx, `SELECT count(*) FROM `+relation).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, action)
	}

	return uint64(total), nil
}

func (repository *PostgresRepository) Upsert(ctx context.Context, record *Record) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOperationTimeout)
	defer cancel()

	args, err := upsertArgs(record)
	if err != nil {
		return fmt.Errorf("encode artwork %d: %w", record.ArtID, err)
	}

	if _, err := repository.db.Exec(ctx, upsertQuery(), args...); err != nil {
		return dberr.Wrap(err, "upsert_artwork")
	}

	return nil
}

func (repository *PostgresRepository) EnsureView(ctx context.Context, category Category) error {
	ddl, err := viewDefinition(category)
	if err != nil {
		return err
	}

	if _, err := repository.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create view %s: %w", category.View(), err)
	}

	return nil
}

// # Query Construction

// listIDsQuery selects identifiers from the category view, newest first.
// art_id breaks timestamp ties so that repeated reads are stable.
func listIDsQuery(category Category, filter Predicate) (string, []any) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, schema.GalleryArtwork.ArtID, category.View())

	// The match-all predicate renders no WHERE clause at all.
	clause, args := filter.SQL(schema.GalleryArtwork.Characters, 1)
	if clause != "" {
		query += " WHERE " + clause
	}

	query += fmt.Sprintf(" ORDER BY %s DESC, %s ASC", schema.GalleryArtwork.UploadTimestamp, schema.GalleryArtwork.ArtID)
	return query, args
}

func latestUploadQuery() string {
	return fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s ASC LIMIT 1`,
		schema.GalleryArtwork.UploadTimestamp, schema.GalleryArtwork.Table,
		schema.GalleryArtwork.UploadTimestamp, schema.GalleryArtwork.ArtID,
	)
}

// upsertQuery replaces every projected column and the document on conflict,
// so a second sync of the same art_id leaves no trace of the first.
func upsertQuery() string {
	t := schema.GalleryArtwork
	columns := t.Columns()

	placeholders := make([]string, len(columns))
	assignments := make([]string, 0, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if column != t.ArtID {
			assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
		}
	}
	assignments = append(assignments, t.SyncedAt+" = NOW()")

	return fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (%s, NOW()) ON CONFLICT (%s) DO UPDATE SET %s`,
		t.Table, strings.Join(columns, ", "), t.SyncedAt, strings.Join(placeholders, ", "),
		t.ArtID, strings.Join(assignments, ", "),
	)
}

// upsertArgs projects a record onto the columns of [schema.GalleryArtworkTable.Columns].
func upsertArgs(record *Record) ([]any, error) {
	document, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	characters := record.Characters
	if characters == nil {
		characters = []string{}
	}

	return []any{
		record.ArtID,
		record.UploadTimestamp,
		characters,
		record.Is404,
		nullable(record.ModerationType()),
		nullable(record.ModerationStatus()),
		document,
	}, nil
}

// viewDefinition is the standing predicate of a category view.
func viewDefinition(category Category) (string, error) {
	if !category.IsValid() {
		return "", fmt.Errorf("unknown category %q", category)
	}

	t := schema.GalleryArtwork
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM %s WHERE %s IS NOT TRUE AND %s = '%s' AND %s IN ('%s', '%s')`,
		category.View(), t.Table,
		t.Is404, t.ModerateType, category, t.ModerateStatus, StatusPass, StatusPush,
	), nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
