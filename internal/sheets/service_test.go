package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/vantrack/internal/metrics"
	"github.com/hitoshi/vantrack/internal/model"
)

type mockReader struct {
	readRangeFn func(ctx context.Context, a1Range string) ([][]string, error)
}

func (m *mockReader) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	return m.readRangeFn(ctx, a1Range)
}

var _ ValuesReader = (*mockReader)(nil)

func newTestService(reader ValuesReader) *Service {
	return NewService(reader, metrics.NopCollector{}, DefaultServiceConfig(), nil)
}

func TestService_GetDealerStats(t *testing.T) {
	var gotRange string
	reader := &mockReader{
		readRangeFn: func(_ context.Context, a1Range string) ([][]string, error) {
			gotRange = a1Range
			return [][]string{
				{"Dealer"},
				{"KAKADU CARAVANS"},
				{"Leon RV"},
			}, nil
		},
	}

	stats, err := newTestService(reader).GetDealerStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRange != "SCHEDULE!E:E" {
		t.Errorf("range = %q, want %q", gotRange, "SCHEDULE!E:E")
	}
	if len(stats) != 4 {
		t.Fatalf("len(stats) = %d, want 4", len(stats))
	}
	if stats[0].Count != 1 || stats[1].Count != 1 {
		t.Errorf("counts = {%d, %d}, want {1, 1}", stats[0].Count, stats[1].Count)
	}
}

func TestService_GetDealerStats_FetchError(t *testing.T) {
	reader := &mockReader{
		readRangeFn: func(_ context.Context, _ string) ([][]string, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := newTestService(reader).GetDealerStats(context.Background())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeSheetFetchFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeSheetFetchFailed)
	}
}

func TestService_GetDealerStats_EmptySheet(t *testing.T) {
	reader := &mockReader{
		readRangeFn: func(_ context.Context, _ string) ([][]string, error) {
			return [][]string{}, nil
		},
	}

	_, err := newTestService(reader).GetDealerStats(context.Background())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeSheetEmpty {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeSheetEmpty)
	}
}

func TestService_GetProductionStatus(t *testing.T) {
	var gotRange string
	reader := &mockReader{
		readRangeFn: func(_ context.Context, a1Range string) ([][]string, error) {
			gotRange = a1Range
			return [][]string{
				make([]string, 19),
				scheduleRow("LTRV 25105", "Leon", "Smith", [6]string{"2025-05-01", "2025-05-10", "", "", "", ""}),
			}, nil
		},
	}

	statuses, err := newTestService(reader).GetProductionStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRange != "SCHEDULE!A:S" {
		t.Errorf("range = %q, want %q", gotRange, "SCHEDULE!A:S")
	}
	if len(statuses) != 1 {
		t.Fatalf("len(statuses) = %d, want 1", len(statuses))
	}
	if statuses[0].Status != "Walls Up" {
		t.Errorf("status = %q, want Walls Up", statuses[0].Status)
	}
}

func TestService_GetVanDetail(t *testing.T) {
	var gotRange string
	reader := &mockReader{
		readRangeFn: func(_ context.Context, a1Range string) ([][]string, error) {
			gotRange = a1Range
			return [][]string{
				vanDetailHeaders,
				{"LTRV 25105", "Smith", "Leon", "TRUE"},
			}, nil
		},
	}

	detail, err := newTestService(reader).GetVanDetail(context.Background(), "LTRV 25105")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRange != "'Van Details'!A:N" {
		t.Errorf("range = %q, want %q", gotRange, "'Van Details'!A:N")
	}
	if detail.CustomerName != "Smith" || !detail.Benchtops {
		t.Errorf("detail = {customer %q, benchtops %v}, want {Smith, true}",
			detail.CustomerName, detail.Benchtops)
	}
}

func TestService_GetVanDetail_NotFound(t *testing.T) {
	reader := &mockReader{
		readRangeFn: func(_ context.Context, _ string) ([][]string, error) {
			return [][]string{
				vanDetailHeaders,
				{"LTRV 25105", "Smith", "Leon"},
			}, nil
		},
	}

	_, err := newTestService(reader).GetVanDetail(context.Background(), "LTRV 99999")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeVanNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeVanNotFound)
	}
}

func TestService_GetDashboard(t *testing.T) {
	var gotRange string
	reader := &mockReader{
		readRangeFn: func(_ context.Context, a1Range string) ([][]string, error) {
			gotRange = a1Range
			return [][]string{
				dashboardHeader(),
				dashboardRow("KAKADU CARAVANS", "2025-06-05"),
				dashboardRow("Leon RV", "2025-05-10"),
			}, nil
		},
	}

	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	dashboard, err := newTestService(reader).GetDashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRange != "SCHEDULE!A:R" {
		t.Errorf("range = %q, want %q", gotRange, "SCHEDULE!A:R")
	}
	if len(dashboard.Stats) != 4 {
		t.Errorf("len(stats) = %d, want 4", len(dashboard.Stats))
	}
	if dashboard.Stats[0].ActiveProducts != 1 {
		t.Errorf("Adelaide City active = %d, want 1", dashboard.Stats[0].ActiveProducts)
	}
	// 2ヶ月 x 4拠点
	if len(dashboard.History) != 8 {
		t.Errorf("len(history) = %d, want 8", len(dashboard.History))
	}
}

func TestService_GetDashboard_FetchError(t *testing.T) {
	reader := &mockReader{
		readRangeFn: func(_ context.Context, _ string) ([][]string, error) {
			return nil, errors.New("timeout")
		},
	}

	_, err := newTestService(reader).GetDashboard(context.Background(), time.Now())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeSheetFetchFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeSheetFetchFailed)
	}
}

func TestService_XMarkFlagStyle(t *testing.T) {
	reader := &mockReader{
		readRangeFn: func(_ context.Context, _ string) ([][]string, error) {
			return [][]string{
				vanDetailHeaders,
				{"LTRV 25105", "Smith", "Leon", "x", "TRUE"},
			}, nil
		},
	}

	config := DefaultServiceConfig()
	config.FlagStyle = model.FlagStyleXMark
	svc := NewService(reader, metrics.NopCollector{}, config, nil)

	detail, err := svc.GetVanDetail(context.Background(), "LTRV 25105")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.Benchtops {
		t.Error("x cell should be true under x-mark style")
	}
	if detail.Doors {
		t.Error("TRUE cell should be false under x-mark style")
	}
}
