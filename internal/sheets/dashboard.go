package sheets

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hitoshi/vantrack/internal/model"
)

// colVanDue はスケジュールシートのVan Due（納車予定日）列の位置。
const colVanDue = 1

// vanDueLayouts はVan Due列の日付表記の揺れに対応するパース候補。
// 先頭から順に試し、最初に成功したものを採用する。
var vanDueLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// findDealerColumn はヘッダー行からDealer列の位置を返す。
// 列名は小文字化して "dealer" との完全一致で判定する。
func findDealerColumn(headers []string) (int, error) {
	for i, h := range headers {
		if strings.ToLower(h) == "dealer" {
			return i, nil
		}
	}
	return -1, fmt.Errorf("dealer column not found in header row")
}

// parseVanDueDate はVan Dueセルの日付をパースする。
// どの表記にも一致しない場合はfalseを返す。
func parseVanDueDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range vanDueLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dashboardTrend は前月比の増減率（%）を小数第1位に丸めて返す。
// 前月が0件の場合は0。
func dashboardTrend(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	raw := float64(current-previous) / float64(previous) * 100
	return math.Round(raw*10) / 10
}

// BuildDashboardStats は行データから拠点別の当月実績と前月比を構築する。
// Van Due列の日付でnowの当月・前月に該当する行だけを数える。
// 前月の判定は年跨ぎ（1月の前月は前年12月）を考慮する。
// ディーラー空セル・Unknown・日付不正の行はスキップする。
// 戻り値の2番目はスキップされた行数。
func BuildDashboardStats(rows [][]string, now time.Time) ([]model.DashboardStat, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no rows")
	}

	dealerCol, err := findDealerColumn(rows[0])
	if err != nil {
		return nil, 0, err
	}

	currentYear, currentMonth, _ := now.Date()
	previousMonth := currentMonth - 1
	previousYear := currentYear
	if previousMonth < time.January {
		previousMonth = time.December
		previousYear--
	}

	currentCounts := make(map[string]int, len(locationNames))
	previousCounts := make(map[string]int, len(locationNames))

	skipped := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		dealer := cellAt(row, dealerCol)
		if dealer == "" {
			continue
		}

		location := ClassifyDealerDashboard(dealer)
		if location == locationUnknown {
			skipped++
			continue
		}

		due, ok := parseVanDueDate(cellAt(row, colVanDue))
		if !ok {
			skipped++
			continue
		}

		year, month, _ := due.Date()
		switch {
		case year == currentYear && month == currentMonth:
			currentCounts[location]++
		case year == previousYear && month == previousMonth:
			previousCounts[location]++
		}
	}

	stats := make([]model.DashboardStat, 0, len(locationNames))
	for _, name := range locationNames {
		stats = append(stats, model.DashboardStat{
			Name:           name,
			ActiveProducts: currentCounts[name],
			Trend:          dashboardTrend(currentCounts[name], previousCounts[name]),
		})
	}

	return stats, skipped, nil
}

// BuildHistoricalSeries は行データから月別・拠点別のディーラー数の系列を構築する。
// 月キーはYYYY-MM形式で昇順に並べ、各月は4拠点すべてを拠点の固定順で含む
// （該当0件の拠点も0として出力する）。
// ディーラー空セル・Unknown・日付不正の行はスキップする。
// 戻り値の2番目はスキップされた行数。
func BuildHistoricalSeries(rows [][]string) ([]model.HistoricalPoint, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no rows")
	}

	dealerCol, err := findDealerColumn(rows[0])
	if err != nil {
		return nil, 0, err
	}

	monthlyCounts := make(map[string]map[string]int)

	skipped := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		dealer := cellAt(row, dealerCol)
		if dealer == "" {
			continue
		}

		location := ClassifyDealerDashboard(dealer)
		if location == locationUnknown {
			skipped++
			continue
		}

		due, ok := parseVanDueDate(cellAt(row, colVanDue))
		if !ok {
			skipped++
			continue
		}

		monthKey := due.Format("2006-01")
		if monthlyCounts[monthKey] == nil {
			monthlyCounts[monthKey] = make(map[string]int, len(locationNames))
		}
		monthlyCounts[monthKey][location]++
	}

	monthKeys := make([]string, 0, len(monthlyCounts))
	for key := range monthlyCounts {
		monthKeys = append(monthKeys, key)
	}
	// YYYY-MM形式は辞書順と時系列順が一致する
	sort.Strings(monthKeys)

	points := make([]model.HistoricalPoint, 0, len(monthKeys)*len(locationNames))
	for _, key := range monthKeys {
		for _, name := range locationNames {
			points = append(points, model.HistoricalPoint{
				Date:     key,
				Location: name,
				Value:    monthlyCounts[key][name],
			})
		}
	}

	return points, skipped, nil
}
