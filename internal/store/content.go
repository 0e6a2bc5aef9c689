package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"portfolio/api/internal/content"
	"portfolio/api/internal/util"
)

// assetColumn holds the resolved public URL for row-mode sections that carry
// an attachment.
const assetColumn = "document_url"

// ListItems returns the authoritative rows for a section in display order.
// Snapshot sections with no stored row yield an empty list, never the
// compiled defaults; materializing defaults is the reconciler's job.
func (s *PostgresStore) ListItems(ctx context.Context, section content.Section) ([]content.Item, error) {
	if section.Mode == content.StorageSnapshot {
		items, _, err := s.loadSnapshot(ctx, s.db, section.Key)
		return items, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY created_at ASC, id ASC`,
		strings.Join(selectColumns(section), ", "), section.Table,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", section.Table, err)
	}
	defer rows.Close()

	items := make([]content.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows, section)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", section.Table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", section.Table, err)
	}
	return items, nil
}

func (s *PostgresStore) GetItem(ctx context.Context, section content.Section, itemID string) (content.Item, error) {
	if section.Mode == content.StorageSnapshot {
		items, ok, err := s.loadSnapshot(ctx, s.db, section.Key)
		if err != nil {
			return content.Item{}, err
		}
		if !ok {
			// A section that was never persisted still exposes its compiled
			// defaults for per-item reads, so attaching an asset to a default
			// slot works before the first save.
			items = section.DefaultItems()
		}
		for _, item := range items {
			if item.ID == itemID {
				return item, nil
			}
		}
		return content.Item{}, content.ErrNotFound
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1`,
		strings.Join(selectColumns(section), ", "), section.Table,
	)
	item, err := scanItem(s.db.QueryRowContext(ctx, query, itemID), section)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Item{}, content.ErrNotFound
	}
	if err != nil {
		return content.Item{}, fmt.Errorf("get %s row: %w", section.Table, err)
	}
	return item, nil
}

func (s *PostgresStore) InsertItem(ctx context.Context, section content.Section, ownerID string, item content.Item) (string, error) {
	id := util.NewID(section.Key)
	if section.Mode == content.StorageSnapshot {
		err := s.mutateSnapshot(ctx, section, func(items []content.Item) ([]content.Item, error) {
			item.ID = id
			return section.InsertInto(items, item), nil
		})
		if err != nil {
			return "", err
		}
		return id, nil
	}

	columns := append([]string{"id", "owner_id"}, section.Columns...)
	args := []any{id, ownerID}
	for _, column := range section.Columns {
		args = append(args, item.Field(column))
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		section.Table, strings.Join(columns, ", "), placeholders(len(args)),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert %s row: %w", section.Table, err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateItemFields(ctx context.Context, section content.Section, itemID string, fields map[string]string) error {
	if section.Mode == content.StorageSnapshot {
		return s.mutateSnapshot(ctx, section, func(items []content.Item) ([]content.Item, error) {
			for i := range items {
				if items[i].ID == itemID {
					items[i].Fields = fields
					return items, nil
				}
			}
			return nil, content.ErrNotFound
		})
	}

	assignments := make([]string, 0, len(section.Columns))
	args := make([]any, 0, len(section.Columns)+1)
	for i, column := range section.Columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, fields[column])
	}
	args = append(args, itemID)
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE id = $%d`,
		section.Table, strings.Join(assignments, ", "), len(args),
	)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s row: %w", section.Table, err)
	}
	return requireRow(result, section.Table)
}

func (s *PostgresStore) UpdateItemAsset(ctx context.Context, section content.Section, itemID string, asset *content.AssetRef) error {
	if section.Mode == content.StorageSnapshot {
		return s.mutateSnapshot(ctx, section, func(items []content.Item) ([]content.Item, error) {
			for i := range items {
				if items[i].ID == itemID {
					items[i].Asset = asset
					return items, nil
				}
			}
			return nil, content.ErrNotFound
		})
	}

	var url sql.NullString
	if asset != nil && asset.URL != "" {
		url = sql.NullString{String: asset.URL, Valid: true}
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, section.Table, assetColumn)
	result, err := s.db.ExecContext(ctx, query, url, itemID)
	if err != nil {
		return fmt.Errorf("update %s asset: %w", section.Table, err)
	}
	return requireRow(result, section.Table)
}

func (s *PostgresStore) DeleteItem(ctx context.Context, section content.Section, itemID string) (bool, error) {
	if section.Mode == content.StorageSnapshot {
		err := s.mutateSnapshot(ctx, section, func(items []content.Item) ([]content.Item, error) {
			for i := range items {
				if items[i].ID == itemID {
					return append(items[:i:i], items[i+1:]...), nil
				}
			}
			return nil, content.ErrNotFound
		})
		if errors.Is(err, content.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, section.Table)
	result, err := s.db.ExecContext(ctx, query, itemID)
	if err != nil {
		return false, fmt.Errorf("delete %s row: %w", section.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s row: %w", section.Table, err)
	}
	return affected > 0, nil
}

// SaveSnapshot replaces a snapshot section's whole array in one write. Used
// when the owner publishes an edited section wholesale.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, section content.Section, items []content.Item) error {
	if section.Mode != content.StorageSnapshot {
		return fmt.Errorf("section %s is row-backed", section.Key)
	}
	return s.writeSnapshot(ctx, s.db, section.Key, items)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) loadSnapshot(ctx context.Context, q queryer, key string) ([]content.Item, bool, error) {
	var raw []byte
	err := q.QueryRowContext(ctx, `SELECT content_value FROM portfolio_content WHERE content_key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	var items []content.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return items, true, nil
}

func (s *PostgresStore) writeSnapshot(ctx context.Context, e execer, key string, items []content.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	_, err = e.ExecContext(ctx, `
		INSERT INTO portfolio_content (content_key, content_value)
		VALUES ($1, $2)
		ON CONFLICT (content_key) DO UPDATE SET content_value=EXCLUDED.content_value, updated_at=NOW()
	`, key, raw)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// mutateSnapshot runs a read-modify-write on one snapshot row inside a
// transaction, locking the row so concurrent edits cannot drop each other.
// A section that was never persisted starts from its compiled defaults.
func (s *PostgresStore) mutateSnapshot(ctx context.Context, section content.Section, fn func([]content.Item) ([]content.Item, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	items := section.DefaultItems()
	err = tx.QueryRowContext(ctx, `SELECT content_value FROM portfolio_content WHERE content_key = $1 FOR UPDATE`, section.Key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// keep the defaults
	case err != nil:
		return fmt.Errorf("lock snapshot %s: %w", section.Key, err)
	default:
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode snapshot %s: %w", section.Key, err)
		}
	}

	items, err = fn(items)
	if err != nil {
		return err
	}
	if err := s.writeSnapshot(ctx, tx, section.Key, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot %s: %w", section.Key, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func selectColumns(section content.Section) []string {
	columns := append([]string{"id"}, section.Columns...)
	if section.Asset != nil {
		columns = append(columns, assetColumn)
	}
	return columns
}

func scanItem(row rowScanner, section content.Section) (content.Item, error) {
	dest := make([]any, 0, len(section.Columns)+2)
	var id string
	dest = append(dest, &id)
	values := make([]sql.NullString, len(section.Columns))
	for i := range values {
		dest = append(dest, &values[i])
	}
	var url sql.NullString
	if section.Asset != nil {
		dest = append(dest, &url)
	}
	if err := row.Scan(dest...); err != nil {
		return content.Item{}, err
	}

	item := content.Item{ID: id, Fields: make(map[string]string, len(section.Columns))}
	for i, column := range section.Columns {
		item.Fields[column] = values[i].String
	}
	if url.Valid && url.String != "" {
		item.Asset = &content.AssetRef{URL: url.String}
	}
	return item, nil
}

func requireRow(result sql.Result, table string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s row: %w", table, err)
	}
	if affected == 0 {
		return content.ErrNotFound
	}
	return nil
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}
