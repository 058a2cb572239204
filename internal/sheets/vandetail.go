package sheets

import (
	"fmt"
	"strings"

	"github.com/hitoshi/vantrack/internal/model"
)

// vanDetailColumns はVan Detailsシートのヘッダー名から解決した列位置。
// 列の並びはシート編集で変わりうるため、固定インデックスではなく
// ヘッダー名で解決する。
type vanDetailColumns struct {
	vanNumber    int
	customerName int
	model        int
	benchtops    int
	doors        int
	upholstery   int
	chassis      int
	furniture    int
	comments     int
	chassisIn    int
	wallsUp      int
	building     int
	wiring       int
	cladding     int
	finishing    int
}

// indexOf はヘッダー行から列名の位置を返す。見つからない場合は-1。
func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// resolveVanDetailColumns はヘッダー行から各列の位置を解決する。
// Van Number列はルックアップに必須のため、欠落している場合はエラー。
// その他の列は欠落時-1のままとし、セル参照は空文字列になる。
func resolveVanDetailColumns(headers []string) (vanDetailColumns, error) {
	cols := vanDetailColumns{
		vanNumber:    indexOf(headers, "Van Number"),
		customerName: indexOf(headers, "Customer Name"),
		model:        indexOf(headers, "Model"),
		benchtops:    indexOf(headers, "Benchtops"),
		doors:        indexOf(headers, "Doors"),
		upholstery:   indexOf(headers, "Upholstery"),
		chassis:      indexOf(headers, "Chassis"),
		furniture:    indexOf(headers, "Furniture"),
		comments:     indexOf(headers, "Comments"),
		chassisIn:    indexOf(headers, "Chassis In"),
		wallsUp:      indexOf(headers, "Walls Up"),
		building:     indexOf(headers, "Building"),
		wiring:       indexOf(headers, "Wiring"),
		cladding:     indexOf(headers, "Cladding"),
		finishing:    indexOf(headers, "Finishing"),
	}
	if cols.vanNumber < 0 {
		return cols, fmt.Errorf("van number column not found in header row")
	}
	return cols, nil
}

// flagTrue はチェックセルの値が真かを設定された方式で判定する。
// true-literal方式はセル値が "TRUE" に完全一致、
// x-mark方式は大文字小文字を問わず "x" に一致で真とみなす。
func flagTrue(cell string, style model.FlagStyle) bool {
	switch style {
	case model.FlagStyleXMark:
		return strings.EqualFold(strings.TrimSpace(cell), "x")
	default:
		return cell == "TRUE"
	}
}

// nullableDate は工程日付セルを返す。空の場合はnil。
func nullableDate(cell string) *string {
	if cell == "" {
		return nil
	}
	return &cell
}

// LookupVanDetail は行データから指定バン番号の詳細を検索する。
// バン番号は完全一致で、最初に一致した行を採用する。
// 見つからない場合は(nil, nil)を返す（形式不正エラーとは区別する）。
func LookupVanDetail(rows [][]string, vanNumber string, style model.FlagStyle) (*model.VanDetail, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in sheet")
	}

	cols, err := resolveVanDetailColumns(rows[0])
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if cellAt(row, cols.vanNumber) != vanNumber {
			continue
		}

		return &model.VanDetail{
			VanNumber:    cellAt(row, cols.vanNumber),
			CustomerName: cellAt(row, cols.customerName),
			Model:        cellAt(row, cols.model),
			Benchtops:    flagTrue(cellAt(row, cols.benchtops), style),
			Doors:        flagTrue(cellAt(row, cols.doors), style),
			Upholstery:   flagTrue(cellAt(row, cols.upholstery), style),
			Chassis:      flagTrue(cellAt(row, cols.chassis), style),
			Furniture:    flagTrue(cellAt(row, cols.furniture), style),
			Comments:     cellAt(row, cols.comments),
			ChassisIn:    nullableDate(cellAt(row, cols.chassisIn)),
			WallsUp:      nullableDate(cellAt(row, cols.wallsUp)),
			Building:     nullableDate(cellAt(row, cols.building)),
			Wiring:       nullableDate(cellAt(row, cols.wiring)),
			Cladding:     nullableDate(cellAt(row, cols.cladding)),
			Finishing:    nullableDate(cellAt(row, cols.finishing)),
		}, nil
	}

	return nil, nil
}
