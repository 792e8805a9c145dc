package session

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/core/domain"
)

const userContextKey = "session.user"

// SetUser attaches the restored identity to the request.
func SetUser(c echo.Context, user *domain.SafeUser) {
	c.Set(userContextKey, user)
}

// User returns the request's identity, or nil for anonymous callers.
func User(c echo.Context) *domain.SafeUser {
	user, _ := c.Get(userContextKey).(*domain.SafeUser)
	return user
}
