package sheets

import (
	"strings"

	"github.com/hitoshi/vantrack/internal/model"
)

// 販売拠点の4バケット。集計結果はこの順で返す。
var locationNames = []string{"Adelaide City", "Geelong", "Wangaratta", "Ideal"}

// locationUnknown は4拠点のいずれにも一致しないディーラー名の分類先。
const locationUnknown = "Unknown"

// ClassifyDealerSchedule はスケジュールシート用のディーラー名分類を行う。
// 入力を大文字化・trimし、部分一致で拠点を判定する。
// 判定順は IDEAL → KEAN/LEON/LATITUDE → HIGH COUNTRY → KAKADU で固定。
// どれにも一致しない場合は "Unknown" を返す。
func ClassifyDealerSchedule(dealer string) string {
	d := strings.ToUpper(strings.TrimSpace(dealer))

	if strings.Contains(d, "IDEAL") {
		return "Ideal"
	}
	if strings.Contains(d, "KEAN") || strings.Contains(d, "LEON") || strings.Contains(d, "LATITUDE") {
		return "Geelong"
	}
	if strings.Contains(d, "HIGH COUNTRY") {
		return "Wangaratta"
	}
	if strings.Contains(d, "KAKADU") {
		return "Adelaide City"
	}

	return locationUnknown
}

// ClassifyDealerDashboard はダッシュボード用のディーラー名分類を行う。
// スケジュール用とはキーワード集合と判定順が異なる
// （LATITUDEを含まず、TASMANをIdealに含める）。
// 判定順は KAKADU → LEON/KEAN → HIGH COUNTRY → IDEAL/TASMAN で固定。
func ClassifyDealerDashboard(dealer string) string {
	d := strings.ToUpper(strings.TrimSpace(dealer))

	if strings.Contains(d, "KAKADU") {
		return "Adelaide City"
	}
	if strings.Contains(d, "LEON") || strings.Contains(d, "KEAN") {
		return "Geelong"
	}
	if strings.Contains(d, "HIGH COUNTRY") {
		return "Wangaratta"
	}
	if strings.Contains(d, "IDEAL") || strings.Contains(d, "TASMAN") {
		return "Ideal"
	}

	return locationUnknown
}

// BuildDealerCounts はディーラー列の行データから拠点別集計を構築する。
// 先頭行はヘッダーとしてスキップする。空セルとUnknownは集計に含めない。
// trendは4拠点合計に対する割合（%）。合計が0の場合は全拠点0。
// 戻り値の2番目はUnknownに分類されスキップされた行数。
func BuildDealerCounts(rows [][]string) ([]model.LocationStat, int) {
	counts := make(map[string]int, len(locationNames))
	for _, name := range locationNames {
		counts[name] = 0
	}

	skipped := 0
	for i := 1; i < len(rows); i++ {
		dealer := cellAt(rows[i], 0)
		if dealer == "" {
			continue
		}

		location := ClassifyDealerSchedule(dealer)
		if location == locationUnknown {
			skipped++
			continue
		}
		counts[location]++
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	stats := make([]model.LocationStat, 0, len(locationNames))
	for _, name := range locationNames {
		trend := 0.0
		if total > 0 {
			trend = float64(counts[name]) / float64(total) * 100
		}
		stats = append(stats, model.LocationStat{
			Name:  name,
			Count: counts[name],
			Trend: trend,
		})
	}

	return stats, skipped
}
