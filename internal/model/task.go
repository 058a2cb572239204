// Package model はドメインモデルを定義する。
package model

import "time"

// ImportantTask はダッシュボードのタスクトラッカーの1件を表す。
// 削除はソフトデリートで、IsCompletedをtrueにすることで一覧から消える。
type ImportantTask struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	VanNumber         string    `json:"van_number"`
	CustomerName      string    `json:"customer_name"`
	Issue             string    `json:"issue"`
	WarrantyHandledBy string    `json:"warranty_handled_by"`
	AssignedTo        string    `json:"assigned_to"`
	DueDate           string    `json:"due_date"`
	IsCompleted       bool      `json:"is_completed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TaskUpdate はタスクの部分更新を表す。nilフィールドは変更しない。
type TaskUpdate struct {
	Title             *string `json:"title"`
	VanNumber         *string `json:"van_number"`
	CustomerName      *string `json:"customer_name"`
	Issue             *string `json:"issue"`
	WarrantyHandledBy *string `json:"warranty_handled_by"`
	AssignedTo        *string `json:"assigned_to"`
	DueDate           *string `json:"due_date"`
	IsCompleted       *bool   `json:"is_completed"`
}
