package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFCookieName holds the CSRF secret; the browser never reads it.
	CSRFCookieName = "_csrf"
	// CSRFHeader carries the token echoed back by the frontend on unsafe methods.
	CSRFHeader = "XSRF-Token"
	// XSRFCookieName is the script-readable copy of the CSRF token.
	XSRFCookieName = "XSRF-TOKEN"
	// CSRFContextKey is where the CSRF middleware stores the current token.
	CSRFContextKey = "csrf"
)

// SecureHeaders sets the helmet-style response headers. Cross-Origin-Resource-Policy
// is relaxed to cross-origin so a separately hosted frontend can load responses.
func SecureHeaders(production bool) echo.MiddlewareFunc {
	cfg := echomiddleware.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'",
	}
	if production {
		cfg.HSTSMaxAge = 15552000
	}
	secure := echomiddleware.SecureWithConfig(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := secure(next)
		return func(c echo.Context) error {
			c.Response().Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
			return h(c)
		}
	}
}

// CORS allows credentialed requests from the configured origins. It is only
// installed outside production, where the frontend runs on its own dev server.
func CORS(origins []string) echo.MiddlewareFunc {
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, CSRFHeader,
		},
	})
}

// CSRF enforces a double-submit token on unsafe methods. The secret lives in an
// HttpOnly cookie whose Secure/SameSite attributes follow the environment.
func CSRF(production bool) echo.MiddlewareFunc {
	cfg := echomiddleware.CSRFConfig{
		TokenLookup:    "header:" + CSRFHeader,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   production,
		CookieSameSite: http.SameSiteDefaultMode,
	}
	if production {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}
	return echomiddleware.CSRFWithConfig(cfg)
}
