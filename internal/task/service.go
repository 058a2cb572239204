// Package task はダッシュボードのタスクトラッカーのドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vantrack/internal/model"
	"github.com/hitoshi/vantrack/internal/repository"
	"github.com/hitoshi/vantrack/internal/security"
)

// Service はタスクトラッカーのサービス層。
// 削除はソフトデリートで、is_completedをtrueにすることで一覧から外す。
type Service struct {
	taskRepo  repository.TaskRepository
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(taskRepo repository.TaskRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		taskRepo:  taskRepo,
		sanitizer: sanitizer,
	}
}

// CreateTask はタスクを作成する。
// IDと日時はサーバー側で採番し、is_completedは必ずfalseで作成する。
// 自由入力フィールドはサニタイズする。
func (s *Service) CreateTask(ctx context.Context, task *model.ImportantTask) (*model.ImportantTask, error) {
	task.Title = s.sanitize(task.Title)
	task.Issue = s.sanitize(task.Issue)
	task.WarrantyHandledBy = s.sanitize(task.WarrantyHandledBy)
	task.AssignedTo = s.sanitize(task.AssignedTo)
	task.CustomerName = s.sanitize(task.CustomerName)
	task.VanNumber = strings.TrimSpace(task.VanNumber)

	if task.Title == "" {
		return nil, model.NewValidationFailedError("title")
	}

	task.ID = uuid.New().String()
	task.IsCompleted = false
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}
	return task, nil
}

// ListActiveTasks は未完了タスクを期日の昇順で返す。
func (s *Service) ListActiveTasks(ctx context.Context) ([]*model.ImportantTask, error) {
	tasks, err := s.taskRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	return tasks, nil
}

// UpdateTask はタスクの部分更新を適用する。nilフィールドは変更しない。
func (s *Service) UpdateTask(ctx context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error) {
	update.Title = s.sanitizePtr(update.Title)
	update.Issue = s.sanitizePtr(update.Issue)
	update.WarrantyHandledBy = s.sanitizePtr(update.WarrantyHandledBy)
	update.AssignedTo = s.sanitizePtr(update.AssignedTo)
	update.CustomerName = s.sanitizePtr(update.CustomerName)

	task, err := s.taskRepo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(id)
	}
	return task, nil
}

// CompleteTask はタスクを完了済みにする（ソフトデリート）。
func (s *Service) CompleteTask(ctx context.Context, id string) error {
	affected, err := s.taskRepo.Complete(ctx, id)
	if err != nil {
		return fmt.Errorf("タスクの完了に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewTaskNotFoundError(id)
	}
	return nil
}

func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return strings.TrimSpace(raw)
	}
	return s.sanitizer.SanitizeText(raw)
}

func (s *Service) sanitizePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	clean := s.sanitize(*raw)
	return &clean
}
