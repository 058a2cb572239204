// Package model はドメインモデルを定義する。
package model

import "time"

// User は社内アプリケーションの利用ユーザーを表す。
// 許可リストに含まれるメールアドレスのユーザーのみが作成される。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 現状はGoogleのみだが、複数IdPに対応可能な構造にしている。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
