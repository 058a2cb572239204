// Package order は内装発注のドメインロジックを提供する。
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hitoshi/vantrack/internal/metrics"
	"github.com/hitoshi/vantrack/internal/model"
	"github.com/hitoshi/vantrack/internal/repository"
	"github.com/hitoshi/vantrack/internal/security"
)

// Service は内装発注のサービス層。
// 発注の作成（検証・サニタイズ込み）、一覧取得、個別取得、削除を提供する。
type Service struct {
	orderRepo repository.OrderRepository
	sanitizer security.TextSanitizerService
	metrics   metrics.MetricsCollector
	validate  *validator.Validate
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(orderRepo repository.OrderRepository, sanitizer security.TextSanitizerService, collector metrics.MetricsCollector) *Service {
	return &Service{
		orderRepo: orderRepo,
		sanitizer: sanitizer,
		metrics:   collector,
		validate:  validator.New(),
	}
}

// CreateOrder は発注を検証して作成する。
// IDと作成日時はサーバー側で採番し、自由入力フィールドはサニタイズする。
func (s *Service) CreateOrder(ctx context.Context, order *model.UpholsteryOrder) (*model.UpholsteryOrder, error) {
	order.VanNumber = strings.TrimSpace(order.VanNumber)
	order.Model = strings.TrimSpace(order.Model)

	if s.sanitizer != nil {
		order.BrandOfSample = s.sanitizer.SanitizeText(order.BrandOfSample)
		order.ColorOfSample = s.sanitizer.SanitizeText(order.ColorOfSample)
		order.Base = s.sanitizer.SanitizeText(order.Base)
		order.PresetName = s.sanitizer.SanitizeText(order.PresetName)
	}

	if err := s.validate.Struct(order); err != nil {
		return nil, model.NewValidationFailedError(validationDetail(err))
	}

	order.ID = uuid.New().String()
	order.CreatedAt = time.Now()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("発注の作成に失敗しました: %w", err)
	}

	s.metrics.RecordOrderCreated()
	return order, nil
}

// GetOrder は指定IDの発注を取得する。
func (s *Service) GetOrder(ctx context.Context, id string) (*model.UpholsteryOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("発注の取得に失敗しました: %w", err)
	}
	if order == nil {
		return nil, model.NewOrderNotFoundError(id)
	}
	return order, nil
}

// ListOrders は発注一覧を作成日時の新しい順で返す。
func (s *Service) ListOrders(ctx context.Context) ([]*model.UpholsteryOrder, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("発注一覧の取得に失敗しました: %w", err)
	}
	return orders, nil
}

// DeleteOrder は指定IDの発注を削除する。
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	affected, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("発注の削除に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewOrderNotFoundError(id)
	}
	return nil
}

// validationDetail はvalidatorのエラーをユーザー向けの短い文字列にまとめる。
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return strings.Join(fields, ", ")
}
