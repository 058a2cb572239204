package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vantrack/internal/model"
)

// OrderServiceInterface は発注ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, order *model.UpholsteryOrder) (*model.UpholsteryOrder, error)
	GetOrder(ctx context.Context, id string) (*model.UpholsteryOrder, error)
	ListOrders(ctx context.Context) ([]*model.UpholsteryOrder, error)
	DeleteOrder(ctx context.Context, id string) error
}

// OrderHandler は内装発注のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder は発注を作成する。
// POST /api/upholstery-orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order model.UpholsteryOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreateOrder(r.Context(), &order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListOrders は発注一覧を作成日時の新しい順で返す。
// GET /api/upholstery-orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if orders == nil {
		orders = []*model.UpholsteryOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// GetOrder は発注詳細を返す。
// GET /api/upholstery-orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// DeleteOrder は発注を削除する。
// DELETE /api/upholstery-orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
