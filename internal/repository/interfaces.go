// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/vantrack/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// OrderRepository は内装発注データの永続化インターフェース。
type OrderRepository interface {
	// Create は発注を作成する。
	Create(ctx context.Context, order *model.UpholsteryOrder) error

	// FindByID は指定IDの発注を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.UpholsteryOrder, error)

	// List は発注一覧を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.UpholsteryOrder, error)

	// Delete は指定IDの発注を削除する。存在しない場合もエラーにしない。
	// 削除された行数を返す。
	Delete(ctx context.Context, id string) (int64, error)
}

// TaskRepository はタスクトラッカーの永続化インターフェース。
type TaskRepository interface {
	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.ImportantTask) error

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ImportantTask, error)

	// ListActive は未完了タスクを期日の昇順で返す。
	ListActive(ctx context.Context) ([]*model.ImportantTask, error)

	// Update はタスクの部分更新を適用する。nilフィールドは変更しない。
	// 更新後のタスクを返す。タスクが存在しない場合はnilを返す。
	Update(ctx context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error)

	// Complete はタスクを完了済みにする（ソフトデリート）。
	// 更新された行数を返す。
	Complete(ctx context.Context, id string) (int64, error)
}

// LayoutRepository はレイアウト画像の永続化インターフェース。
type LayoutRepository interface {
	// Upsert は同名レイアウトがあれば上書き、なければ作成する。
	Upsert(ctx context.Context, layout *model.Layout) error

	// FindByName は指定名のレイアウトを画像データ込みで取得する。
	// 見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Layout, error)

	// ListMeta は全レイアウトのメタデータを名前の昇順で返す（画像データは含まない）。
	ListMeta(ctx context.Context) ([]*model.Layout, error)

	// DeleteByName は指定名のレイアウトを削除する。削除された行数を返す。
	DeleteByName(ctx context.Context, name string) (int64, error)
}
