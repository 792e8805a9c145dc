// Package session binds the session token codec to HTTP cookies and holds
// the request-scoped identity restored from them.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/metrics"
	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/infrastructure/security"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// TokenCodec is the subset of security.TokenCodec the cookie manager needs.
type TokenCodec interface {
	Issue(payload security.TokenPayload) (string, error)
	Verify(token string) (security.TokenPayload, error)
	TTL() time.Duration
}

// CookieManager writes and clears the session cookie. Production cookies are
// Secure with SameSite=Lax; development cookies are SameSite=Strict over plain HTTP.
type CookieManager struct {
	codec      TokenCodec
	production bool
}

func NewCookieManager(codec TokenCodec, production bool) *CookieManager {
	return &CookieManager{codec: codec, production: production}
}

// Codec exposes the underlying codec for token verification.
func (m *CookieManager) Codec() TokenCodec { return m.codec }

// Issue signs a token for user, sets it as the session cookie, and returns it.
func (m *CookieManager) Issue(c echo.Context, user *domain.SafeUser) (string, error) {
	token, err := m.codec.Issue(security.TokenPayload{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return "", err
	}

	ttl := m.codec.TTL()
	cookie := m.base()
	cookie.Value = token
	cookie.MaxAge = int(ttl / time.Second)
	cookie.Expires = time.Now().Add(ttl)
	c.SetCookie(cookie)

	metrics.SessionsIssuedTotal.Inc()
	return token, nil
}

// Clear expires the session cookie. Safe to call when no cookie exists.
func (m *CookieManager) Clear(c echo.Context) {
	cookie := m.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

// Read returns the session token sent with the request, if any.
func (m *CookieManager) Read(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (m *CookieManager) base() *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.production,
		SameSite: http.SameSiteStrictMode,
	}
	if m.production {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}
