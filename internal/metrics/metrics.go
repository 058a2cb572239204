// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// シートサービスやハンドラー層から利用する。
type MetricsCollector interface {
	RecordSheetFetchSuccess(sheetName string)
	RecordSheetFetchFailure(sheetName string, reason string)
	RecordSheetFetchLatency(duration time.Duration)
	RecordRowsSkipped(sheetName string, count int)
	RecordOrderCreated()
	RecordLayoutUploaded()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	sheetFetchSuccess *prometheus.CounterVec
	sheetFetchFail    *prometheus.CounterVec
	sheetFetchLatency prometheus.Histogram
	rowsSkipped       *prometheus.CounterVec
	ordersCreated     prometheus.Counter
	layoutsUploaded   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sheetFetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vantrack_sheet_fetch_success_total",
			Help: "スプレッドシート取得成功の合計数",
		}, []string{"sheet"}),
		sheetFetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vantrack_sheet_fetch_fail_total",
			Help: "スプレッドシート取得失敗の合計数",
		}, []string{"sheet", "reason"}),
		sheetFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vantrack_sheet_fetch_latency_seconds",
			Help:    "スプレッドシート取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		rowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vantrack_sheet_rows_skipped_total",
			Help: "不正な形式のためスキップされた行の合計数",
		}, []string{"sheet"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vantrack_orders_created_total",
			Help: "作成された内装発注の合計数",
		}),
		layoutsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vantrack_layouts_uploaded_total",
			Help: "アップロードされたレイアウト画像の合計数",
		}),
	}

	reg.MustRegister(
		c.sheetFetchSuccess,
		c.sheetFetchFail,
		c.sheetFetchLatency,
		c.rowsSkipped,
		c.ordersCreated,
		c.layoutsUploaded,
	)

	return c
}

// RecordSheetFetchSuccess はシート取得成功を記録する。
func (c *Collector) RecordSheetFetchSuccess(sheetName string) {
	c.sheetFetchSuccess.WithLabelValues(sheetName).Inc()
}

// RecordSheetFetchFailure はシート取得失敗を記録する。
func (c *Collector) RecordSheetFetchFailure(sheetName string, reason string) {
	c.sheetFetchFail.WithLabelValues(sheetName, reason).Inc()
}

// RecordSheetFetchLatency はシート取得のレイテンシを記録する。
func (c *Collector) RecordSheetFetchLatency(duration time.Duration) {
	c.sheetFetchLatency.Observe(duration.Seconds())
}

// RecordRowsSkipped はスキップされた行数を記録する。
func (c *Collector) RecordRowsSkipped(sheetName string, count int) {
	if count <= 0 {
		return
	}
	c.rowsSkipped.WithLabelValues(sheetName).Add(float64(count))
}

// RecordOrderCreated は発注作成を記録する。
func (c *Collector) RecordOrderCreated() {
	c.ordersCreated.Inc()
}

// RecordLayoutUploaded はレイアウト画像アップロードを記録する。
func (c *Collector) RecordLayoutUploaded() {
	c.layoutsUploaded.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)

// NopCollector は何も記録しないコレクター。テスト用。
type NopCollector struct{}

func (NopCollector) RecordSheetFetchSuccess(string)         {}
func (NopCollector) RecordSheetFetchFailure(string, string) {}
func (NopCollector) RecordSheetFetchLatency(time.Duration)  {}
func (NopCollector) RecordRowsSkipped(string, int)          {}
func (NopCollector) RecordOrderCreated()                    {}
func (NopCollector) RecordLayoutUploaded()                  {}

var _ MetricsCollector = NopCollector{}
