package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/middleware"
	"github.com/99minutos/identity-api/internal/core/domain"
)

type stubUserRepo struct {
	user *domain.User
	err  error
}

func (r *stubUserRepo) FindByEmailOrUsername(context.Context, string, string) ([]*domain.User, error) {
	if r.user == nil {
		return nil, r.err
	}
	return []*domain.User{r.user}, r.err
}

func (r *stubUserRepo) FindByCredential(_ context.Context, credential string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.user == nil || credential != r.user.Username {
		return nil, domain.ErrUserNotFound
	}
	return r.user, nil
}

func (r *stubUserRepo) FindByID(context.Context, string) (*domain.SafeUser, error) {
	if r.user == nil {
		return nil, domain.ErrUserNotFound
	}
	return r.user.Safe(), nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func TestDevHandler_SetDemoToken(t *testing.T) {
	e := newTestEcho()
	repo := &stubUserRepo{user: &domain.User{ID: "d1", Username: domain.DemoUsername, Email: domain.DemoEmail, PasswordHash: "h"}}
	h := NewDevHandler(repo, newTestCookies(t), false)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/set-token-cookie", nil), rec)
	if err := h.SetDemoToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token == "" || resp.User["username"] != domain.DemoUsername {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
	if _, ok := resp.User["passwordHash"]; ok {
		t.Fatalf("hash leaked")
	}
	if c := sessionCookie(rec); c == nil || c.Value != resp.Token {
		t.Fatalf("cookie does not carry returned token")
	}
}

func TestDevHandler_SetDemoToken_Production(t *testing.T) {
	e := newTestEcho()
	h := NewDevHandler(&stubUserRepo{}, newTestCookies(t), true)

	rec := httptest.NewRecorder()
	err := h.SetDemoToken(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/set-token-cookie", nil), rec))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDevHandler_SetDemoToken_NotSeeded(t *testing.T) {
	e := newTestEcho()
	h := NewDevHandler(&stubUserRepo{}, newTestCookies(t), false)

	rec := httptest.NewRecorder()
	err := h.SetDemoToken(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/set-token-cookie", nil), rec))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDevHandler_RestoreCSRF(t *testing.T) {
	e := newTestEcho()
	h := NewDevHandler(&stubUserRepo{}, newTestCookies(t), false)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/csrf/restore", nil), rec)
	c.Set(middleware.CSRFContextKey, "tok123")
	if err := h.RestoreCSRF(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.XSRFCookieName {
			found = ck
		}
	}
	if found == nil || found.Value != "tok123" || found.HttpOnly {
		t.Fatalf("unexpected XSRF cookie: %+v", found)
	}
	if !strings.Contains(rec.Body.String(), `"XSRF-Token":"tok123"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDevHandler_EchoBody(t *testing.T) {
	e := newTestEcho()
	h := NewDevHandler(&stubUserRepo{}, newTestCookies(t), false)

	req := httptest.NewRequest(http.MethodPost, "/api/test", strings.NewReader(`{"hello":"world"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.EchoBody(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"requestBody":{"hello":"world"}}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
