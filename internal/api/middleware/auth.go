package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/domain"
)

// RequireAuth rejects requests without a restored identity with 401.
// It must run after RestoreUser.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session.User(c) == nil {
				return domain.NewAuthRequiredError()
			}
			return next(c)
		}
	}
}
