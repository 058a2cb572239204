package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/vantrack/internal/model"
	"github.com/hitoshi/vantrack/internal/sheets"
)

// SheetServiceInterface はシートハンドラーが必要とするサービスインターフェース。
type SheetServiceInterface interface {
	GetDealerStats(ctx context.Context) ([]model.LocationStat, error)
	GetProductionStatus(ctx context.Context) ([]model.ProductionStatus, error)
	GetVanDetail(ctx context.Context, vanNumber string) (*model.VanDetail, error)
	GetDashboard(ctx context.Context, now time.Time) (*sheets.Dashboard, error)
}

// SheetHandler はスプレッドシート由来データのHTTPハンドラー。
type SheetHandler struct {
	service SheetServiceInterface
}

// NewSheetHandler はSheetHandlerを生成する。
func NewSheetHandler(service SheetServiceInterface) *SheetHandler {
	return &SheetHandler{service: service}
}

// GetStats は拠点別のディーラー集計を返す。
// GET /api/stats
func (h *SheetHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDealerStats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// GetProductionStatus は製造ステータス一覧を返す。
// GET /api/production-status
func (h *SheetHandler) GetProductionStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.GetProductionStatus(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"productionData": statuses})
}

// GetVanDetail は指定バン番号の詳細を返す。
// GET /api/van-details?vanNumber=LTRV+25105
func (h *SheetHandler) GetVanDetail(w http.ResponseWriter, r *http.Request) {
	vanNumber := r.URL.Query().Get("vanNumber")
	if vanNumber == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError("vanNumber"))
		return
	}

	detail, err := h.service.GetVanDetail(r.Context(), vanNumber)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// GetDashboard は拠点別の当月実績と月別履歴を返す。
// GET /api/dashboard
func (h *SheetHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context(), time.Now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":   dashboard.Stats,
		"history": dashboard.History,
	})
}
