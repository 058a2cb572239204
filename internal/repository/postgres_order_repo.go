package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/vantrack/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した内装発注リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

const orderColumns = `id, van_number, model, order_date, brand_of_sample, color_of_sample,
	bed_head, arms, base, mag_pockets, head_bumper, other, lounge_type, design,
	curtain, stitching, bunk_mattresses, preset_name, created_at`

// Create は発注を作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, order *model.UpholsteryOrder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO upholstery_orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		order.ID, order.VanNumber, order.Model, order.OrderDate, order.BrandOfSample,
		order.ColorOfSample, order.BedHead, order.Arms, order.Base, order.MagPockets,
		order.HeadBumper, order.Other, order.LoungeType, order.Design, order.Curtain,
		order.Stitching, order.BunkMattresses, order.PresetName, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// FindByID は指定IDの発注を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.UpholsteryOrder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM upholstery_orders WHERE id = $1`,
		id,
	)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// List は発注一覧を作成日時の降順で返す。
func (r *PostgresOrderRepo) List(ctx context.Context) ([]*model.UpholsteryOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM upholstery_orders ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.UpholsteryOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

// Delete は指定IDの発注を削除する。削除された行数を返す。
func (r *PostgresOrderRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM upholstery_orders WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// scanner はsql.Rowとsql.Rowsの共通スキャンインターフェース。
type scanner interface {
	Scan(dest ...any) error
}

// scanOrder は1行分の発注をスキャンする。
func scanOrder(s scanner) (*model.UpholsteryOrder, error) {
	order := &model.UpholsteryOrder{}
	err := s.Scan(
		&order.ID, &order.VanNumber, &order.Model, &order.OrderDate, &order.BrandOfSample,
		&order.ColorOfSample, &order.BedHead, &order.Arms, &order.Base, &order.MagPockets,
		&order.HeadBumper, &order.Other, &order.LoungeType, &order.Design, &order.Curtain,
		&order.Stitching, &order.BunkMattresses, &order.PresetName, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
