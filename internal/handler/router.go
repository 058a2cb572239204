package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vantrack/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver   middleware.SessionUserResolver
	EmailAuthorizer   middleware.EmailAuthorizer
	GateConfig        middleware.AccessGateConfig
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	RequestLogger     func(next http.Handler) http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	SheetService  SheetServiceInterface
	OrderService  OrderServiceInterface
	TaskService   TaskServiceInterface
	LayoutService LayoutServiceInterface

	// /metrics ハンドラー（nilの場合はルートを設定しない）
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → Recovery → SecurityHeaders → AccessGate → CSRF → RateLimit → Logging
//
// 認証ルート（/auth/*）、/healthz、/metricsはAccessGateの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	sheetHandler := NewSheetHandler(deps.SheetService)
	orderHandler := NewOrderHandler(deps.OrderService)
	taskHandler := NewTaskHandler(deps.TaskService)
	layoutHandler := NewLayoutHandler(deps.LayoutService)

	// --- ゲートの外のルート ---

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// ヘルスチェック
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// メトリクス
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	gate := middleware.NewAccessGate(deps.SessionResolver, deps.EmailAuthorizer, deps.GateConfig)

	// --- ページエンドポイント（リダイレクト判定の対象パス） ---
	// 未ログインでも/loginと/unauthorizedは表示できるため、レート制限は掛けない。
	r.Group(func(r chi.Router) {
		r.Use(gate)
		if deps.RequestLogger != nil {
			r.Use(deps.RequestLogger)
		}

		r.Get("/", servePage)
		r.Get("/login", servePage)
		r.Get("/unauthorized", servePage)
		r.Get("/dashboard", servePage)
	})

	// --- AccessGate配下のAPIルート ---
	// ミドルウェアスタック: AccessGate → CSRF → RateLimit(General) → Logging
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		if deps.RequestLogger != nil {
			r.Use(deps.RequestLogger)
		}

		// CSRFトークン取得
		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// スプレッドシート由来データ
		r.Get("/api/stats", sheetHandler.GetStats)
		r.Get("/api/production-status", sheetHandler.GetProductionStatus)
		r.Get("/api/van-details", sheetHandler.GetVanDetail)
		r.Get("/api/dashboard", sheetHandler.GetDashboard)

		// 内装発注
		r.Route("/api/upholstery-orders", func(r chi.Router) {
			// POST - 発注作成（発注専用レート制限を追加）
			r.With(deps.RateLimiter.OrderSubmitMiddleware()).Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", orderHandler.GetOrder)
				r.Delete("/", orderHandler.DeleteOrder)
			})
		})

		// タスクトラッカー
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
			})
		})

		// レイアウト画像管理
		r.Route("/api/layouts", func(r chi.Router) {
			r.Get("/", layoutHandler.ListLayouts)
			r.Post("/", layoutHandler.UploadLayout)
			r.Post("/import", layoutHandler.ImportLayout)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/image", layoutHandler.GetLayoutImage)
				r.Delete("/", layoutHandler.DeleteLayout)
			})
		})
	})

	return r
}

// servePage はページパスの200応答。画面の描画はフロントエンドが担う。
func servePage(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
