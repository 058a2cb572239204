// Package layout は内装レイアウト画像管理のドメインロジックを提供する。
package layout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vantrack/internal/metrics"
	"github.com/hitoshi/vantrack/internal/model"
	"github.com/hitoshi/vantrack/internal/repository"
	"github.com/hitoshi/vantrack/internal/security"
)

// defaultMaxLayoutSize はレイアウト画像の既定の最大サイズ（10MiB）。
const defaultMaxLayoutSize = 10 * 1024 * 1024

// importTimeout はURL取り込みのタイムアウト。
const importTimeout = 10 * time.Second

// allowedMimes はアップロードを許可する画像形式。
var allowedMimes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Service はレイアウト画像のサービス層。
// アップロード、一覧、取得、削除、URL取り込みを提供する。
type Service struct {
	layoutRepo repository.LayoutRepository
	ssrfGuard  security.SSRFGuardService
	metrics    metrics.MetricsCollector
	maxBytes   int64
}

// NewService はServiceの新しいインスタンスを生成する。
// maxBytesがゼロ以下の場合は既定の10MiBを上限とする。
func NewService(layoutRepo repository.LayoutRepository, ssrfGuard security.SSRFGuardService, collector metrics.MetricsCollector, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = defaultMaxLayoutSize
	}
	return &Service{
		layoutRepo: layoutRepo,
		ssrfGuard:  ssrfGuard,
		metrics:    collector,
		maxBytes:   maxBytes,
	}
}

// Upload は画像を検証して保存する。同名レイアウトは上書きする。
func (s *Service) Upload(ctx context.Context, name, mime string, data []byte) (*model.Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewValidationFailedError("name")
	}

	if err := s.validateImage(mime, int64(len(data))); err != nil {
		return nil, err
	}

	layout := &model.Layout{
		ID:        uuid.New().String(),
		Name:      name,
		Mime:      mime,
		SizeBytes: int64(len(data)),
		Data:      data,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.layoutRepo.Upsert(ctx, layout); err != nil {
		return nil, fmt.Errorf("レイアウトの保存に失敗しました: %w", err)
	}

	s.metrics.RecordLayoutUploaded()
	return layout, nil
}

// List は全レイアウトのメタデータを名前の昇順で返す。
func (s *Service) List(ctx context.Context) ([]model.LayoutMeta, error) {
	layouts, err := s.layoutRepo.ListMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("レイアウト一覧の取得に失敗しました: %w", err)
	}

	metas := make([]model.LayoutMeta, len(layouts))
	for i, layout := range layouts {
		metas[i] = model.LayoutMeta{
			Name:      layout.Name,
			URL:       fmt.Sprintf("/api/layouts/%s/image", layout.Name),
			Path:      layout.Name,
			CreatedAt: layout.CreatedAt,
			UpdatedAt: layout.UpdatedAt,
		}
	}
	return metas, nil
}

// GetImage は指定名のレイアウトを画像データ込みで返す。
func (s *Service) GetImage(ctx context.Context, name string) (*model.Layout, error) {
	layout, err := s.layoutRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("レイアウトの取得に失敗しました: %w", err)
	}
	if layout == nil {
		return nil, model.NewLayoutNotFoundError(name)
	}
	return layout, nil
}

// Delete は指定名のレイアウトを削除する。
func (s *Service) Delete(ctx context.Context, name string) error {
	affected, err := s.layoutRepo.DeleteByName(ctx, name)
	if err != nil {
		return fmt.Errorf("レイアウトの削除に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewLayoutNotFoundError(name)
	}
	return nil
}

// ImportFromURL は外部URLから画像を取得して保存する。
// SSRF検証に通らないURLは拒否する。名前省略時はURLのファイル名を使う。
func (s *Service) ImportFromURL(ctx context.Context, rawURL, name string) (*model.Layout, error) {
	if err := s.ssrfGuard.ValidateURL(rawURL); err != nil {
		slog.Warn("layout import blocked", "url", rawURL, "error", err)
		return nil, model.NewSSRFBlockedError()
	}

	client := s.ssrfGuard.NewSafeClient(importTimeout, s.maxBytes)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.NewInvalidURLError(fmt.Sprintf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("画像の読み取りに失敗しました: %w", err)
	}

	mime := extractMimeType(resp.Header.Get("Content-Type"))

	if name == "" {
		name = nameFromURL(rawURL)
	}

	return s.Upload(ctx, name, mime, body)
}

// validateImage はサイズ上限と対応形式を検証する。
func (s *Service) validateImage(mime string, size int64) error {
	if size == 0 {
		return model.NewValidationFailedError("image data is empty")
	}
	if size > s.maxBytes {
		return model.NewLayoutTooLargeError(s.maxBytes)
	}
	if _, ok := allowedMimes[mime]; !ok {
		return model.NewUnsupportedImageError(mime)
	}
	return nil
}

// extractMimeType はContent-Typeヘッダーからメディアタイプを抽出する。
func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// nameFromURL はURLのパス末尾からレイアウト名を作る。
func nameFromURL(rawURL string) string {
	base := path.Base(rawURL)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return base
}
