// Package sheets はGoogleスプレッドシートからの読み取りと、
// 行データのドメインレコードへの変換を提供する。
package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// ValuesReader はA1範囲を文字列の行列として読み取るインターフェース。
// テストではモックに差し替える。
type ValuesReader interface {
	// ReadRange は指定範囲の値を読み取る。先頭行はヘッダー。
	// 通信・認証エラーの場合はエラーを返す。データが空の場合は空スライスを返す。
	ReadRange(ctx context.Context, a1Range string) ([][]string, error)
}

// ClientConfig はGoogleスプレッドシートクライアントの設定。
type ClientConfig struct {
	SpreadsheetID string
	ClientEmail   string // サービスアカウントのメールアドレス
	PrivateKey    string // サービスアカウントのPEM秘密鍵（\nアンエスケープ済み）
}

// Client はサービスアカウントJWTで認証するGoogleスプレッドシートの読み取りクライアント。
type Client struct {
	spreadsheetID string
	svc           *sheetsapi.Service
}

// NewClient はClientを生成する。
// 読み取り専用スコープのJWT設定でHTTPクライアントを構築する。
func NewClient(ctx context.Context, config ClientConfig) (*Client, error) {
	jwtConfig := &jwt.Config{
		Email:      config.ClientEmail,
		PrivateKey: []byte(config.PrivateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		spreadsheetID: config.SpreadsheetID,
		svc:           svc,
	}, nil
}

// ReadRange は指定範囲の値を読み取り、全セルを文字列に変換して返す。
func (c *Client) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", a1Range, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, rawRow := range resp.Values {
		row := make([]string, 0, len(rawRow))
		for _, cell := range rawRow {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// compile-time interface check
var _ ValuesReader = (*Client)(nil)

// cellAt は行の指定インデックスのセルを返す。
// インデックスが負または範囲外の場合は空文字列を返す。
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
