// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/hitoshi/vantrack/internal/model"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Session
	SessionMaxAge int

	// AccessGate
	// AllowedEmailsは小文字・前後空白除去で正規化済みの許可リスト。
	AllowedEmails []string

	// Google Sheets
	SpreadsheetID        string
	SheetsClientEmail    string
	SheetsPrivateKey     string
	ScheduleSheetName    string
	VanDetailsSheetName  string
	VanDetailsFlagStyle  model.FlagStyle
	SheetsFetchTimeout   time.Duration

	// Layout storage
	LayoutMaxBytes int64

	// Rate Limit
	RateLimitGeneral     int
	RateLimitOrderSubmit int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（上書きはしない）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// ローカル開発用。ファイルがなくてもエラーにはしない。
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}

	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}

	cfg.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if cfg.GoogleRedirectURL == "" {
		missing = append(missing, "GOOGLE_REDIRECT_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	allowed := os.Getenv("ALLOWED_EMAILS")
	if allowed == "" {
		missing = append(missing, "ALLOWED_EMAILS")
	}
	cfg.AllowedEmails = ParseAllowedEmails(allowed)

	cfg.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	if cfg.SpreadsheetID == "" {
		missing = append(missing, "GOOGLE_SHEETS_SPREADSHEET_ID")
	}

	cfg.SheetsClientEmail = os.Getenv("GOOGLE_SHEETS_CLIENT_EMAIL")
	if cfg.SheetsClientEmail == "" {
		missing = append(missing, "GOOGLE_SHEETS_CLIENT_EMAIL")
	}

	// PEM鍵は環境変数内でエスケープされた\nを実改行に戻す
	cfg.SheetsPrivateKey = strings.ReplaceAll(os.Getenv("GOOGLE_SHEETS_PRIVATE_KEY"), `\n`, "\n")
	if cfg.SheetsPrivateKey == "" {
		missing = append(missing, "GOOGLE_SHEETS_PRIVATE_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.ScheduleSheetName = getEnvString("SCHEDULE_SHEET_NAME", "SCHEDULE")
	cfg.VanDetailsSheetName = getEnvString("VAN_DETAILS_SHEET_NAME", "Van Details")
	cfg.SheetsFetchTimeout = getEnvDuration("SHEETS_FETCH_TIMEOUT", 10*time.Second)
	cfg.LayoutMaxBytes = getEnvInt64("LAYOUT_MAX_BYTES", 10485760)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitOrderSubmit = getEnvInt("RATE_LIMIT_ORDER_SUBMIT", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	switch style := model.FlagStyle(getEnvString("VAN_DETAILS_FLAG_STYLE", string(model.FlagStyleTrueLiteral))); style {
	case model.FlagStyleTrueLiteral, model.FlagStyleXMark:
		cfg.VanDetailsFlagStyle = style
	default:
		return nil, fmt.Errorf("invalid VAN_DETAILS_FLAG_STYLE: %q (allowed: %s, %s)",
			style, model.FlagStyleTrueLiteral, model.FlagStyleXMark)
	}

	return cfg, nil
}

// ParseAllowedEmails はカンマ区切りの許可リストを正規化してパースする。
// 各要素は小文字化・前後空白除去され、空要素は捨てられる。
func ParseAllowedEmails(raw string) []string {
	var emails []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
