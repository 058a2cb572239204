package sheets

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hitoshi/vantrack/internal/model"
)

// スケジュールシートの列配置（0始まり）。
const (
	colVanNumber    = 0
	colModel        = 3
	colCustomerName = 5
)

// vanNumberPattern はバン番号の形式。プレフィックスと5桁の連番。
var vanNumberPattern = regexp.MustCompile(`^LTRV \d{5}$`)

// vanNumberFloor はこの番号未満のバンを集計から除外する。
// 旧year分の行がシートに残っているため。
const vanNumberFloor = 25101

// productionStage は製造工程の列位置と名前の対応。
type productionStage struct {
	column int
	name   string
}

// productionStages は製造工程を早い順に並べたもの。
// 列N〜Sに各工程の日付が記入される。
var productionStages = []productionStage{
	{13, "Chassis In"},
	{14, "Walls Up"},
	{15, "Building"},
	{16, "Wiring"},
	{17, "Cladding"},
	{18, "Finishing"},
}

// statusNotStarted はどの工程にも日付がない場合のステータス。
const statusNotStarted = "Not Started"

// vanNumberSuffix はバン番号の数値部分を返す。形式検証済みの前提。
func vanNumberSuffix(vanNumber string) int {
	parts := strings.SplitN(vanNumber, " ", 2)
	if len(parts) != 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}

// admitProductionRow は1行が製造ステータス集計の対象かを判定する。
// 除外条件:
//   - バン番号・モデル・顧客名のいずれかが空
//   - セル値がヘッダーラベルそのもの（印刷用の見出し行がシート中に混在するため）
//   - バン番号が形式不一致
//   - 連番が下限未満
func admitProductionRow(vanNumber, vanModel, customerName string) bool {
	if vanNumber == "" || vanModel == "" || customerName == "" {
		return false
	}
	if vanNumber == "Van Number" || vanModel == "Model" || customerName == "Customer" {
		return false
	}
	if !vanNumberPattern.MatchString(vanNumber) {
		return false
	}
	return vanNumberSuffix(vanNumber) >= vanNumberFloor
}

// deriveStatus は工程列を早い順に走査し、日付が記入された最後の工程名を返す。
// 後の工程が前の工程を上書きするため、結果は最も進んだ工程になる。
// どの工程にも日付がなければ "Not Started"。
func deriveStatus(row []string) string {
	status := statusNotStarted
	for _, stage := range productionStages {
		if strings.TrimSpace(cellAt(row, stage.column)) != "" {
			status = stage.name
		}
	}
	return status
}

// BuildProductionStatuses はスケジュールの行データから製造ステータス一覧を構築する。
// 先頭行はヘッダーとしてスキップし、対象外の行は黙ってスキップする。
// 結果はバン番号の連番の降順（新しい順）。
// 戻り値の2番目はスキップされた行数。
func BuildProductionStatuses(rows [][]string) ([]model.ProductionStatus, int) {
	var statuses []model.ProductionStatus
	skipped := 0

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		vanNumber := strings.TrimSpace(cellAt(row, colVanNumber))
		vanModel := strings.TrimSpace(cellAt(row, colModel))
		customerName := strings.TrimSpace(cellAt(row, colCustomerName))

		if !admitProductionRow(vanNumber, vanModel, customerName) {
			skipped++
			continue
		}

		statuses = append(statuses, model.ProductionStatus{
			VanNumber:    vanNumber,
			CustomerName: customerName,
			Model:        vanModel,
			Status:       deriveStatus(row),
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return vanNumberSuffix(statuses[i].VanNumber) > vanNumberSuffix(statuses[j].VanNumber)
	})

	return statuses, skipped
}
