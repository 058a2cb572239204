// Package model はドメインモデルを定義する。
package model

import "time"

// Layout は内装レイアウト画像を表す。
// 画像バイト列はDBに保存し、一覧取得時はメタデータのみを返す。
type Layout struct {
	ID        string
	Name      string
	Mime      string
	SizeBytes int64
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LayoutMeta はレイアウト画像のメタデータ（一覧用）。
type LayoutMeta struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
