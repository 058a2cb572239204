package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vantrack/internal/model"
)

// maxUploadBytes はmultipartアップロードの読み取り上限。
// サービス層の上限検証に到達させるため1バイト余分に読む。
const maxUploadBytes = 10*1024*1024 + 1

// LayoutServiceInterface はレイアウトハンドラーが必要とするサービスインターフェース。
type LayoutServiceInterface interface {
	Upload(ctx context.Context, name, mime string, data []byte) (*model.Layout, error)
	List(ctx context.Context) ([]model.LayoutMeta, error)
	GetImage(ctx context.Context, name string) (*model.Layout, error)
	Delete(ctx context.Context, name string) error
	ImportFromURL(ctx context.Context, rawURL, name string) (*model.Layout, error)
}

// LayoutHandler はレイアウト画像管理のHTTPハンドラー。
type LayoutHandler struct {
	service LayoutServiceInterface
}

// NewLayoutHandler はLayoutHandlerを生成する。
func NewLayoutHandler(service LayoutServiceInterface) *LayoutHandler {
	return &LayoutHandler{service: service}
}

// layoutResponse はレイアウトメタデータのAPIレスポンス。
type layoutResponse struct {
	Name      string `json:"name"`
	Mime      string `json:"mime"`
	SizeBytes int64  `json:"size_bytes"`
}

// importLayoutRequest はURL取り込みリクエストのボディ。
type importLayoutRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ListLayouts は全レイアウトのメタデータを返す。
// GET /api/layouts
func (h *LayoutHandler) ListLayouts(w http.ResponseWriter, r *http.Request) {
	metas, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if metas == nil {
		metas = []model.LayoutMeta{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": metas})
}

// UploadLayout はmultipartフォームから画像をアップロードする。
// フォームフィールド: file（画像）、name（省略時はファイル名）。
// POST /api/layouts
func (h *LayoutHandler) UploadLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError("file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError("file"))
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	layout, err := h.service.Upload(r.Context(), name, header.Header.Get("Content-Type"), data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, layoutResponse{
		Name:      layout.Name,
		Mime:      layout.Mime,
		SizeBytes: layout.SizeBytes,
	})
}

// GetLayoutImage はレイアウト画像本体を返す。
// GET /api/layouts/{name}/image
func (h *LayoutHandler) GetLayoutImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	layout, err := h.service.GetImage(r.Context(), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", layout.Mime)
	w.Header().Set("Content-Length", strconv.FormatInt(layout.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(layout.Data)
}

// ImportLayout は外部URLから画像を取り込む。
// POST /api/layouts/import
func (h *LayoutHandler) ImportLayout(w http.ResponseWriter, r *http.Request) {
	var req importLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.URL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidURLError("URLが空です"))
		return
	}

	layout, err := h.service.ImportFromURL(r.Context(), req.URL, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, layoutResponse{
		Name:      layout.Name,
		Mime:      layout.Mime,
		SizeBytes: layout.SizeBytes,
	})
}

// DeleteLayout はレイアウトを削除する。
// DELETE /api/layouts/{name}
func (h *LayoutHandler) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.Delete(r.Context(), name); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
