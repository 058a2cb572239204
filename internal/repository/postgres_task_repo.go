package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/vantrack/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

const taskColumns = `id, title, van_number, customer_name, issue, warranty_handled_by,
	assigned_to, due_date, is_completed, created_at, updated_at`

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.ImportantTask) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO important_tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID, task.Title, task.VanNumber, task.CustomerName, task.Issue,
		task.WarrantyHandledBy, task.AssignedTo, task.DueDate, task.IsCompleted,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.ImportantTask, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM important_tasks WHERE id = $1`,
		id,
	)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListActive は未完了タスクを期日の昇順で返す。
func (r *PostgresTaskRepo) ListActive(ctx context.Context) ([]*model.ImportantTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM important_tasks
		 WHERE NOT is_completed
		 ORDER BY due_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.ImportantTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Update はタスクの部分更新を適用する。nilフィールドは変更しない。
// COALESCEによりDB側で部分更新を行い、更新後の行を返す。
func (r *PostgresTaskRepo) Update(ctx context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE important_tasks SET
			title               = COALESCE($2, title),
			van_number          = COALESCE($3, van_number),
			customer_name       = COALESCE($4, customer_name),
			issue               = COALESCE($5, issue),
			warranty_handled_by = COALESCE($6, warranty_handled_by),
			assigned_to         = COALESCE($7, assigned_to),
			due_date            = COALESCE($8, due_date),
			is_completed        = COALESCE($9, is_completed),
			updated_at          = $10
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, update.Title, update.VanNumber, update.CustomerName, update.Issue,
		update.WarrantyHandledBy, update.AssignedTo, update.DueDate, update.IsCompleted,
		time.Now(),
	)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Complete はタスクを完了済みにする（ソフトデリート）。更新された行数を返す。
func (r *PostgresTaskRepo) Complete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE important_tasks SET is_completed = TRUE, updated_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to complete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// scanTask は1行分のタスクをスキャンする。
func scanTask(s scanner) (*model.ImportantTask, error) {
	task := &model.ImportantTask{}
	err := s.Scan(
		&task.ID, &task.Title, &task.VanNumber, &task.CustomerName, &task.Issue,
		&task.WarrantyHandledBy, &task.AssignedTo, &task.DueDate, &task.IsCompleted,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
