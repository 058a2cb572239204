package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/vantrack/internal/model"
)

// PostgresLayoutRepo はPostgreSQLを使用したレイアウト画像リポジトリ。
// 画像バイト列はbyteaカラムに保存する。
type PostgresLayoutRepo struct {
	db *sql.DB
}

// NewPostgresLayoutRepo はPostgresLayoutRepoを生成する。
func NewPostgresLayoutRepo(db *sql.DB) *PostgresLayoutRepo {
	return &PostgresLayoutRepo{db: db}
}

// Upsert は同名レイアウトがあれば上書き、なければ作成する。
func (r *PostgresLayoutRepo) Upsert(ctx context.Context, layout *model.Layout) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO layouts (id, name, mime, size_bytes, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (name) DO UPDATE SET
			mime = EXCLUDED.mime,
			size_bytes = EXCLUDED.size_bytes,
			data = EXCLUDED.data,
			updated_at = $8`,
		layout.ID, layout.Name, layout.Mime, layout.SizeBytes, layout.Data,
		layout.CreatedAt, layout.UpdatedAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert layout: %w", err)
	}
	return nil
}

// FindByName は指定名のレイアウトを画像データ込みで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresLayoutRepo) FindByName(ctx context.Context, name string) (*model.Layout, error) {
	layout := &model.Layout{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, mime, size_bytes, data, created_at, updated_at
		 FROM layouts WHERE name = $1`,
		name,
	).Scan(&layout.ID, &layout.Name, &layout.Mime, &layout.SizeBytes, &layout.Data,
		&layout.CreatedAt, &layout.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find layout: %w", err)
	}

	return layout, nil
}

// ListMeta は全レイアウトのメタデータを名前の昇順で返す（画像データは含まない）。
func (r *PostgresLayoutRepo) ListMeta(ctx context.Context) ([]*model.Layout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, mime, size_bytes, created_at, updated_at
		 FROM layouts ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer rows.Close()

	var layouts []*model.Layout
	for rows.Next() {
		layout := &model.Layout{}
		if err := rows.Scan(&layout.ID, &layout.Name, &layout.Mime, &layout.SizeBytes,
			&layout.CreatedAt, &layout.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		layouts = append(layouts, layout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate layouts: %w", err)
	}

	return layouts, nil
}

// DeleteByName は指定名のレイアウトを削除する。削除された行数を返す。
func (r *PostgresLayoutRepo) DeleteByName(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM layouts WHERE name = $1`,
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete layout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// compile-time interface check
var _ LayoutRepository = (*PostgresLayoutRepo)(nil)
