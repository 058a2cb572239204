// Package model はドメインモデルを定義する。
package model

import "time"

// UpholsteryOrder は内装（張り生地）の発注フォーム1件を表す。
// 選択肢フィールドのoneofはフォームの選択肢と一致させている。
type UpholsteryOrder struct {
	ID             string    `json:"id"`
	VanNumber      string    `json:"vanNumber" validate:"required"`
	Model          string    `json:"model" validate:"required"`
	OrderDate      string    `json:"orderDate" validate:"required"`
	BrandOfSample  string    `json:"brandOfSample" validate:"required"`
	ColorOfSample  string    `json:"colorOfSample" validate:"required"`
	BedHead        string    `json:"bedHead" validate:"oneof=Small Large"`
	Arms           string    `json:"arms" validate:"oneof=Short Large 'Recessed Footrest' 'GT arm'"`
	Base           string    `json:"base"`
	MagPockets     string    `json:"magPockets" validate:"oneof='1 x Large' '1 x Small' '1 x Large + 2 small' '1 x Large + 3 small'"`
	HeadBumper     bool      `json:"headBumper"`
	Other          string    `json:"other" validate:"omitempty,oneof='Bunk Facia 1' 'Bunk Facia 2' 'Bunk Facia 3'"`
	LoungeType     string    `json:"loungeType" validate:"oneof=Cafe Club 'L shape' Straight"`
	Design         string    `json:"design" validate:"oneof='Essential Back' 'Soft Back' 'As Per Picture' Other"`
	Curtain        string    `json:"curtain" validate:"oneof=Yes No"`
	Stitching      string    `json:"stitching" validate:"oneof=Contrast Single Double 'Same Colour'"`
	BunkMattresses string    `json:"bunkMattresses" validate:"oneof=None 2 3"`
	PresetName     string    `json:"presetName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
