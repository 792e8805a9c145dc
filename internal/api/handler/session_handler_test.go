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

	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/core/ports"
)

func TestSessionHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*domain.SafeUser, error) {
			if in.Credential != "adal" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.ClientKey == "" {
				t.Fatalf("expected client key")
			}
			return &domain.SafeUser{ID: "u1", Username: "adal"}, nil
		},
	}
	h := NewSessionHandler(stub, newTestCookies(t))

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"credential":"adal","password":"secret1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c := sessionCookie(rec); c == nil || c.Value == "" {
		t.Fatalf("expected session cookie")
	}
}

func TestSessionHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewSessionHandler(&stubAuthService{}, newTestCookies(t))

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Login(e.NewContext(req, rec))
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if de.Fields["credential"] != "Email or username is required" {
		t.Fatalf("unexpected credential message: %+v", de.Fields)
	}
	if de.Fields["password"] != "Please provide a password." {
		t.Fatalf("unexpected password message: %+v", de.Fields)
	}
}

func TestSessionHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*domain.SafeUser, error) {
			return nil, domain.NewInvalidCredentialsError()
		},
	}
	h := NewSessionHandler(stub, newTestCookies(t))

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"credential":"adal","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Login(e.NewContext(req, rec))
	var de *domain.Error
	if !errors.As(err, &de) || de.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 domain error, got %v", err)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("no cookie expected on failed login")
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	e := newTestEcho()
	h := NewSessionHandler(&stubAuthService{}, newTestCookies(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	rec := httptest.NewRecorder()

	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	c := sessionCookie(rec)
	if c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected expired session cookie, got %+v", c)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"message":"success"}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSessionHandler_Current(t *testing.T) {
	e := newTestEcho()
	h := NewSessionHandler(&stubAuthService{}, newTestCookies(t))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/session", nil), rec)
		if err := h.Current(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"user":null}` {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("restored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/session", nil), rec)
		session.SetUser(c, &domain.SafeUser{ID: "u1", Username: "adal"})
		if err := h.Current(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp struct {
			User *domain.SafeUser `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.User == nil || resp.User.ID != "u1" {
			t.Fatalf("unexpected user: %+v", resp.User)
		}
	})
}
