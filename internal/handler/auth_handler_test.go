package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/vantrack/internal/model"
)

type mockAuthService struct {
	getLoginURLFn    func(state string) string
	handleCallbackFn func(ctx context.Context, code string) (*model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) GetLoginURL(state string) string {
	return m.getLoginURLFn(state)
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	return m.handleCallbackFn(ctx, code)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	return m.getCurrentUserFn(ctx, sessionID)
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		BaseURL:          "http://localhost:3000",
		HomePath:         "/dashboard",
		UnauthorizedPath: "/unauthorized",
		SessionMaxAge:    86400,
	}
}

func TestAuthLogin(t *testing.T) {
	svc := &mockAuthService{
		getLoginURLFn: func(state string) string {
			return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Location"), "https://accounts.google.com/") {
		t.Errorf("Location = %q, want Google auth URL", rec.Header().Get("Location"))
	}

	// state Cookieが設定される
	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookie {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Error("oauth state cookie should be set")
	}
}

// callbackRequest はstate検証を通過するコールバックリクエストを作る。
func callbackRequest(code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code="+code+"&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-1"})
	return req
}

func TestAuthCallback(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, code string) (*model.Session, error) {
			return &model.Session{ID: "session-1"}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	rec := httptest.NewRecorder()
	h.Callback(rec, callbackRequest("code-1"))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "http://localhost:3000/dashboard" {
		t.Errorf("Location = %q, want dashboard", got)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "session-1" {
		t.Error("session cookie should be set to the new session ID")
	}
	if sessionCookie != nil && !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
}

func TestAuthCallback_StateMismatch(t *testing.T) {
	svc := &mockAuthService{}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuthCallback_EmailNotAllowed(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, model.NewEmailNotAllowedError()
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	rec := httptest.NewRecorder()
	h.Callback(rec, callbackRequest("code-1"))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "http://localhost:3000/unauthorized" {
		t.Errorf("Location = %q, want unauthorized page", got)
	}

	// セッションCookieは設定されない
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			t.Error("session cookie should not be set")
		}
	}
}

func TestAuthLogout(t *testing.T) {
	var loggedOut string
	svc := &mockAuthService{
		logoutFn: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "session-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if loggedOut != "session-1" {
		t.Errorf("logged out session = %q, want session-1", loggedOut)
	}

	// Cookieがクリアされる
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie should be cleared")
	}
}

func TestAuthMe(t *testing.T) {
	svc := &mockAuthService{
		getCurrentUserFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: "office@lateralcaravans.example", Name: "Office"}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "session-1"})
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["email"] != "office@lateralcaravans.example" {
		t.Errorf("email = %q", body["email"])
	}
}

func TestAuthMe_NoSession(t *testing.T) {
	svc := &mockAuthService{}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
