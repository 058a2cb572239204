// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, sheet, storage, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeEmailNotAllowed   = "EMAIL_NOT_ALLOWED"
	ErrCodeSheetFetchFailed  = "SHEET_FETCH_FAILED"
	ErrCodeSheetEmpty        = "SHEET_EMPTY"
	ErrCodeVanNotFound       = "VAN_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeTaskNotFound      = "TASK_NOT_FOUND"
	ErrCodeLayoutNotFound    = "LAYOUT_NOT_FOUND"
	ErrCodeLayoutTooLarge    = "LAYOUT_TOO_LARGE"
	ErrCodeUnsupportedImage  = "UNSUPPORTED_IMAGE_TYPE"
	ErrCodeInvalidURL        = "INVALID_URL"
	ErrCodeSSRFBlocked       = "SSRF_BLOCKED"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
)

// NewEmailNotAllowedError は許可リスト外のメールアドレスによるログインエラーを生成する。
// メッセージは形式不正か未登録かを区別しない。
func NewEmailNotAllowedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotAllowed,
		Message:  "このアカウントにはアクセス権がありません。",
		Category: "auth",
		Action:   "管理者にアクセス権の付与を依頼してください。",
	}
}

// NewSheetFetchFailedError はスプレッドシート取得失敗エラーを生成する。
func NewSheetFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeSheetFetchFailed,
		Message:  fmt.Sprintf("スプレッドシートの取得に失敗しました: %s", reason),
		Category: "sheet",
		Action:   "しばらく待ってから再度お試しください。続く場合はシートの共有設定を確認してください。",
	}
}

// NewSheetEmptyError はシートにデータが存在しない場合のエラーを生成する。
func NewSheetEmptyError(sheetRange string) *APIError {
	return &APIError{
		Code:     ErrCodeSheetEmpty,
		Message:  fmt.Sprintf("シートにデータが見つかりません: %s", sheetRange),
		Category: "sheet",
		Action:   "スプレッドシートの範囲とシート名を確認してください。",
	}
}

// NewVanNotFoundError は指定されたバン番号が見つからない場合のエラーを生成する。
func NewVanNotFoundError(vanNumber string) *APIError {
	return &APIError{
		Code:     ErrCodeVanNotFound,
		Message:  fmt.Sprintf("指定されたバンが見つかりません: %s", vanNumber),
		Category: "sheet",
		Action:   "バン番号を確認してください。",
	}
}

// NewOrderNotFoundError は発注が見つからない場合のエラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("指定された発注が見つかりません: %s", orderID),
		Category: "validation",
		Action:   "発注IDを確認してください。",
	}
}

// NewTaskNotFoundError はタスクが見つからない場合のエラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "validation",
		Action:   "タスクIDを確認してください。",
	}
}

// NewLayoutNotFoundError はレイアウト画像が見つからない場合のエラーを生成する。
func NewLayoutNotFoundError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeLayoutNotFound,
		Message:  fmt.Sprintf("指定されたレイアウトが見つかりません: %s", name),
		Category: "storage",
		Action:   "レイアウト名を確認してください。",
	}
}

// NewLayoutTooLargeError は画像サイズ上限超過エラーを生成する。
func NewLayoutTooLargeError(limitBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeLayoutTooLarge,
		Message:  fmt.Sprintf("画像サイズが上限（%dバイト）を超えています。", limitBytes),
		Category: "storage",
		Action:   "画像を圧縮してから再度アップロードしてください。",
	}
}

// NewUnsupportedImageError は非対応の画像形式エラーを生成する。
func NewUnsupportedImageError(mime string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedImage,
		Message:  fmt.Sprintf("対応していない画像形式です: %s", mime),
		Category: "storage",
		Action:   "JPEG、PNG、WebPのいずれかの形式でアップロードしてください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewValidationFailedError は入力検証エラーを生成する。
func NewValidationFailedError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", detail),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}
