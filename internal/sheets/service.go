package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/vantrack/internal/metrics"
	"github.com/hitoshi/vantrack/internal/model"
)

// ServiceConfig はシート読み取りサービスの設定。
type ServiceConfig struct {
	// ScheduleSheetName は生産スケジュールのシート名。
	ScheduleSheetName string
	// VanDetailsSheetName はバン詳細のシート名。
	VanDetailsSheetName string
	// FlagStyle はチェックセルの真値表現の方式。
	FlagStyle model.FlagStyle
	// FetchTimeout はシートAPI呼び出し1回あたりのタイムアウト。
	// ゼロ以下の場合はタイムアウトを設定しない。
	FetchTimeout time.Duration
}

// DefaultServiceConfig は既定のシート設定を返す。
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ScheduleSheetName:   "SCHEDULE",
		VanDetailsSheetName: "Van Details",
		FlagStyle:           model.FlagStyleTrueLiteral,
		FetchTimeout:        10 * time.Second,
	}
}

// Service はスプレッドシートの生データを読み取り、ドメインレコードに変換するサービス。
type Service struct {
	reader  ValuesReader
	metrics metrics.MetricsCollector
	config  ServiceConfig
	logger  *slog.Logger
}

// NewService はServiceを生成する。
func NewService(reader ValuesReader, collector metrics.MetricsCollector, config ServiceConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		reader:  reader,
		metrics: collector,
		config:  config,
		logger:  logger,
	}
}

// fetch は範囲を読み取り、メトリクスを記録する。
// 通信エラーはSHEET_FETCH_FAILED、行が空の場合はSHEET_EMPTYとして返す。
func (s *Service) fetch(ctx context.Context, sheetName, a1Range string) ([][]string, error) {
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := s.reader.ReadRange(ctx, a1Range)
	s.metrics.RecordSheetFetchLatency(time.Since(start))

	if err != nil {
		s.metrics.RecordSheetFetchFailure(sheetName, "fetch")
		s.logger.Error("sheet fetch failed",
			slog.String("range", a1Range),
			slog.String("error", err.Error()))
		return nil, model.NewSheetFetchFailedError(err.Error())
	}

	if len(rows) == 0 {
		s.metrics.RecordSheetFetchFailure(sheetName, "empty")
		return nil, model.NewSheetEmptyError(a1Range)
	}

	s.metrics.RecordSheetFetchSuccess(sheetName)
	return rows, nil
}

// GetDealerStats は拠点別のディーラー集計を返す。
func (s *Service) GetDealerStats(ctx context.Context) ([]model.LocationStat, error) {
	rng := fmt.Sprintf("%s!E:E", s.config.ScheduleSheetName)
	rows, err := s.fetch(ctx, s.config.ScheduleSheetName, rng)
	if err != nil {
		return nil, err
	}

	stats, skipped := BuildDealerCounts(rows)
	s.metrics.RecordRowsSkipped(s.config.ScheduleSheetName, skipped)
	return stats, nil
}

// GetProductionStatus はバン番号の新しい順に製造ステータス一覧を返す。
func (s *Service) GetProductionStatus(ctx context.Context) ([]model.ProductionStatus, error) {
	rng := fmt.Sprintf("%s!A:S", s.config.ScheduleSheetName)
	rows, err := s.fetch(ctx, s.config.ScheduleSheetName, rng)
	if err != nil {
		return nil, err
	}

	statuses, skipped := BuildProductionStatuses(rows)
	s.metrics.RecordRowsSkipped(s.config.ScheduleSheetName, skipped)
	return statuses, nil
}

// GetVanDetail は指定バン番号の詳細を返す。
// 見つからない場合はVAN_NOT_FOUNDエラー。
func (s *Service) GetVanDetail(ctx context.Context, vanNumber string) (*model.VanDetail, error) {
	rng := fmt.Sprintf("'%s'!A:N", s.config.VanDetailsSheetName)
	rows, err := s.fetch(ctx, s.config.VanDetailsSheetName, rng)
	if err != nil {
		return nil, err
	}

	detail, err := LookupVanDetail(rows, vanNumber, s.config.FlagStyle)
	if err != nil {
		s.logger.Error("van detail lookup failed",
			slog.String("van_number", vanNumber),
			slog.String("error", err.Error()))
		return nil, model.NewSheetFetchFailedError(err.Error())
	}
	if detail == nil {
		return nil, model.NewVanNotFoundError(vanNumber)
	}
	return detail, nil
}

// Dashboard はダッシュボード用の当月実績と月別履歴のペア。
type Dashboard struct {
	Stats   []model.DashboardStat   `json:"stats"`
	History []model.HistoricalPoint `json:"history"`
}

// GetDashboard は拠点別の当月実績・前月比と月別履歴を返す。
// 当月・前月の判定にはnowを使う。
func (s *Service) GetDashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	rng := fmt.Sprintf("%s!A:R", s.config.ScheduleSheetName)
	rows, err := s.fetch(ctx, s.config.ScheduleSheetName, rng)
	if err != nil {
		return nil, err
	}

	stats, statsSkipped, err := BuildDashboardStats(rows, now)
	if err != nil {
		return nil, model.NewSheetFetchFailedError(err.Error())
	}

	history, _, err := BuildHistoricalSeries(rows)
	if err != nil {
		return nil, model.NewSheetFetchFailedError(err.Error())
	}

	s.metrics.RecordRowsSkipped(s.config.ScheduleSheetName, statsSkipped)
	return &Dashboard{Stats: stats, History: history}, nil
}
