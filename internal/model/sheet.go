// Package model はドメインモデルを定義する。
package model

// LocationStat は販売拠点ごとのディーラー集計を表す。
// Trendは4拠点合計に対する割合（%）。
type LocationStat struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Trend float64 `json:"trend"`
}

// ProductionStatus は1台のバンの製造ステータスを表す。
// Statusは最後に日付が記入された製造工程の名前。
type ProductionStatus struct {
	VanNumber    string `json:"vanNumber"`
	CustomerName string `json:"customerName"`
	Model        string `json:"model"`
	Status       string `json:"status"`
}

// VanDetail は1台のバンの部材準備状況と工程日付を表す。
// 工程日付は未記入の場合nil。
type VanDetail struct {
	VanNumber    string  `json:"vanNumber"`
	CustomerName string  `json:"customerName"`
	Model        string  `json:"model"`
	Benchtops    bool    `json:"benchtops"`
	Doors        bool    `json:"doors"`
	Upholstery   bool    `json:"upholstery"`
	Chassis      bool    `json:"chassis"`
	Furniture    bool    `json:"furniture"`
	Comments     string  `json:"comments"`
	ChassisIn    *string `json:"chassisIn"`
	WallsUp      *string `json:"wallsUp"`
	Building     *string `json:"building"`
	Wiring       *string `json:"wiring"`
	Cladding     *string `json:"cladding"`
	Finishing    *string `json:"finishing"`
}

// DashboardStat はダッシュボード用の拠点別当月実績を表す。
// Trendは前月比の増減率（%）。前月が0件の場合は0。
type DashboardStat struct {
	Name           string  `json:"name"`
	ActiveProducts int     `json:"activeProducts"`
	Trend          float64 `json:"trend"`
}

// HistoricalPoint は月別・拠点別のディーラー数の1点を表す。
// DateはYYYY-MM形式。
type HistoricalPoint struct {
	Date     string `json:"date"`
	Location string `json:"location"`
	Value    int    `json:"value"`
}

// FlagStyle はスプレッドシートのチェックセルの真値表現を表す。
// シートによって "TRUE" リテラル方式と "x" マーク方式が混在しており、
// どちらを使うかはデプロイ設定で選択する（統一はしない）。
type FlagStyle string

const (
	// FlagStyleTrueLiteral はセル値が "TRUE" のとき真とみなす方式。
	FlagStyleTrueLiteral FlagStyle = "true-literal"
	// FlagStyleXMark はセル値が大文字小文字を問わず "x" のとき真とみなす方式。
	FlagStyleXMark FlagStyle = "x-mark"
)
