// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/vantrack/internal/model"
)

const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// userEmailContextKey はリクエストコンテキストにメールアドレスを格納するためのキー。
var userEmailContextKey = contextKey("user_email")

// SessionUserResolver はセッションIDからユーザーを解決するインターフェース。
// セッションが存在しない・期限切れの場合は(nil, nil)、
// インフラ障害の場合のみエラーを返す契約。
type SessionUserResolver interface {
	ResolveSessionUser(ctx context.Context, sessionID string) (*model.User, error)
}

// EmailAuthorizer はメールアドレスの許可判定インターフェース。
type EmailAuthorizer interface {
	IsEmailAllowed(email string) bool
}

// AccessGateConfig はアクセスゲートのパス設定。
type AccessGateConfig struct {
	LoginPath        string // 未認証時のリダイレクト先
	UnauthorizedPath string // 許可リスト外ユーザーのリダイレクト先
	HomePath         string // 認可済みユーザーがログインページに来た場合の行き先
	CallbackPrefix   string // OAuthコールバック等、ゲートを無条件で通過するパスの前置詞
}

// DefaultAccessGateConfig はデフォルトのパス設定を返す。
func DefaultAccessGateConfig() AccessGateConfig {
	return AccessGateConfig{
		LoginPath:        "/login",
		UnauthorizedPath: "/unauthorized",
		HomePath:         "/dashboard",
		CallbackPrefix:   "/auth",
	}
}

// NewAccessGate はリクエスト単位の認可ゲートミドルウェアを返す。
// 判定は以下の順で行い、最初に成立した規則で終了する:
//  1. コールバック前置詞配下のパスは無条件で通過（セッション交換前のため）
//  2. セッション解決がエラーの場合はログインへリダイレクト（フェイルクローズ）
//  3. セッションなし、かつログインページ以外ならログインへリダイレクト
//  4. セッションあり、メールが許可リスト外、かつ未認可ページ以外なら
//     未認可ページへリダイレクト（理由は漏らさない）
//  5. セッションあり、メール許可済み、かつログインページまたは "/" なら
//     ホームへリダイレクト
//  6. それ以外は通過。ユーザーIDとメールをコンテキストに注入する
//
// 各リクエストは独立に評価され、状態は持たない。
func NewAccessGate(resolver SessionUserResolver, authorizer EmailAuthorizer, config AccessGateConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// 1. コールバック配下は無条件通過
			if strings.HasPrefix(path, config.CallbackPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			// 2. Cookieからセッションを解決
			var user *model.User
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				user, err = resolver.ResolveSessionUser(r.Context(), cookie.Value)
				if err != nil {
					// 解決自体の失敗は未認証扱いでログインへ（フェイルクローズ）
					slog.Error("session resolution failed",
						slog.String("error", err.Error()),
						slog.String("path", path),
					)
					http.Redirect(w, r, config.LoginPath, http.StatusTemporaryRedirect)
					return
				}
			}

			// 3. セッションなし
			if user == nil {
				if path != config.LoginPath {
					http.Redirect(w, r, config.LoginPath, http.StatusTemporaryRedirect)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			// 4. 許可リスト外
			if !authorizer.IsEmailAllowed(user.Email) {
				if path != config.UnauthorizedPath {
					http.Redirect(w, r, config.UnauthorizedPath, http.StatusTemporaryRedirect)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			// 5. 認可済みユーザーにログインページは見せない
			if path == config.LoginPath || path == "/" {
				http.Redirect(w, r, config.HomePath, http.StatusTemporaryRedirect)
				return
			}

			// 6. 通過。認証済みユーザー情報をコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, user.ID)
			ctx = context.WithValue(ctx, userEmailContextKey, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// アクセスゲートを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// UserEmailFromContext はリクエストコンテキストからメールアドレスを取得する。
func UserEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(userEmailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("user email not found in context")
	}
	return email, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// ContextWithUserEmail はコンテキストにメールアドレスを注入する。
func ContextWithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailContextKey, email)
}
