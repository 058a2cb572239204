package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordSheetFetchSuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSheetFetchSuccess("SCHEDULE")
	c.RecordSheetFetchSuccess("SCHEDULE")
	c.RecordSheetFetchSuccess("Van Details")

	if got := testutil.ToFloat64(c.sheetFetchSuccess.WithLabelValues("SCHEDULE")); got != 2 {
		t.Errorf("SCHEDULE success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.sheetFetchSuccess.WithLabelValues("Van Details")); got != 1 {
		t.Errorf("Van Details success count = %v, want 1", got)
	}
}

func TestCollector_RecordSheetFetchFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSheetFetchFailure("SCHEDULE", "transport")

	if got := testutil.ToFloat64(c.sheetFetchFail.WithLabelValues("SCHEDULE", "transport")); got != 1 {
		t.Errorf("failure count = %v, want 1", got)
	}
}

func TestCollector_RecordRowsSkipped(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRowsSkipped("SCHEDULE", 3)
	c.RecordRowsSkipped("SCHEDULE", 0)  // 無視される
	c.RecordRowsSkipped("SCHEDULE", -1) // 無視される

	if got := testutil.ToFloat64(c.rowsSkipped.WithLabelValues("SCHEDULE")); got != 3 {
		t.Errorf("rows skipped = %v, want 3", got)
	}
}

func TestCollector_RecordOrderCreated(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrderCreated()
	c.RecordOrderCreated()

	if got := testutil.ToFloat64(c.ordersCreated); got != 2 {
		t.Errorf("orders created = %v, want 2", got)
	}
}

func TestCollector_RecordSheetFetchLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSheetFetchLatency(150 * time.Millisecond)

	if got := testutil.CollectAndCount(c.sheetFetchLatency); got != 1 {
		t.Errorf("latency metric count = %d, want 1", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSheetFetchSuccess("SCHEDULE")
	c.RecordLayoutUploaded()

	handler := Handler(reg)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "vantrack_sheet_fetch_success_total") {
		t.Error("expected vantrack_sheet_fetch_success_total in metrics output")
	}
	if !strings.Contains(body, "vantrack_layouts_uploaded_total") {
		t.Error("expected vantrack_layouts_uploaded_total in metrics output")
	}
}
