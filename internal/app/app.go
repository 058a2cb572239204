// Package app はアプリケーションの起動・初期化・配線を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/vantrack/internal/auth"
	"github.com/hitoshi/vantrack/internal/config"
	"github.com/hitoshi/vantrack/internal/database"
	"github.com/hitoshi/vantrack/internal/handler"
	"github.com/hitoshi/vantrack/internal/layout"
	"github.com/hitoshi/vantrack/internal/logger"
	"github.com/hitoshi/vantrack/internal/metrics"
	"github.com/hitoshi/vantrack/internal/middleware"
	"github.com/hitoshi/vantrack/internal/order"
	"github.com/hitoshi/vantrack/internal/repository"
	"github.com/hitoshi/vantrack/internal/security"
	"github.com/hitoshi/vantrack/internal/sheets"
	"github.com/hitoshi/vantrack/internal/task"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	identRepo := repository.NewPostgresIdentityRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	orderRepo := repository.NewPostgresOrderRepo(db)
	taskRepo := repository.NewPostgresTaskRepo(db)
	layoutRepo := repository.NewPostgresLayoutRepo(db)

	// 3. セキュリティサービスとメトリクスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewTextSanitizer()
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	// 4. 認証サービスの初期化
	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authService := auth.NewService(
		oauthProvider, userRepo, identRepo, sessionRepo,
		auth.ServiceConfig{
			SessionMaxAge: cfg.SessionMaxAge,
			AllowedEmails: cfg.AllowedEmails,
		},
	)

	// 5. ドメインサービスの初期化
	sheetsClient, err := sheets.NewClient(context.Background(), sheets.ClientConfig{
		SpreadsheetID: cfg.SpreadsheetID,
		ClientEmail:   cfg.SheetsClientEmail,
		PrivateKey:    cfg.SheetsPrivateKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	sheetService := sheets.NewService(sheetsClient, collector, sheets.ServiceConfig{
		ScheduleSheetName:   cfg.ScheduleSheetName,
		VanDetailsSheetName: cfg.VanDetailsSheetName,
		FlagStyle:           cfg.VanDetailsFlagStyle,
		FetchTimeout:        cfg.SheetsFetchTimeout,
	}, slog.Default())

	orderService := order.NewService(orderRepo, sanitizer, collector)
	taskService := task.NewService(taskRepo, sanitizer)
	layoutService := layout.NewService(layoutRepo, ssrfGuard, collector, cfg.LayoutMaxBytes)

	// 6. レート制限の構成（configはreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.OrderSubmitRate = rate.Limit(float64(cfg.RateLimitOrderSubmit) / 60.0)
	rateLimiterCfg.OrderSubmitBurst = cfg.RateLimitOrderSubmit

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		SessionResolver:   authService,
		EmailAuthorizer:   authService,
		GateConfig:        middleware.DefaultAccessGateConfig(),
		CSRFConfig:        middleware.CSRFConfig{CookieSecure: cfg.CookieSecure, CookieDomain: cfg.CookieDomain},
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       middleware.NewRateLimiter(rateLimiterCfg),
		RequestLogger:     middleware.NewLoggingMiddleware(slog.Default()),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:          cfg.BaseURL,
			HomePath:         middleware.DefaultAccessGateConfig().HomePath,
			UnauthorizedPath: middleware.DefaultAccessGateConfig().UnauthorizedPath,
			CookieDomain:     cfg.CookieDomain,
			CookieSecure:     cfg.CookieSecure,
			SessionMaxAge:    cfg.SessionMaxAge,
		},

		SheetService:  sheetService,
		OrderService:  orderService,
		TaskService:   taskService,
		LayoutService: layoutService,

		MetricsHandler: metrics.Handler(prometheus.DefaultGatherer),
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
