package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/metrics"
	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/infrastructure/security"
	"github.com/99minutos/identity-api/pkg/logger"
)

// UserLookup loads the sanitized projection of a user by id.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.SafeUser, error)
}

// RestoreUser derives the caller's identity from the session cookie. It never
// fails the request: any problem with the token or the lookup clears the
// cookie and leaves the request anonymous.
func RestoreUser(cookies *session.CookieManager, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			restore(c, cookies, users)
			return next(c)
		}
	}
}

func restore(c echo.Context, cookies *session.CookieManager, users UserLookup) {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	token, ok := cookies.Read(c)
	if !ok {
		metrics.SessionRestoreTotal.WithLabelValues("anonymous").Inc()
		return
	}

	payload, err := cookies.Codec().Verify(token)
	if err != nil {
		outcome := security.TokenMalformed.String()
		var ve *security.VerifyError
		if errors.As(err, &ve) {
			outcome = ve.Kind.String()
		}
		log.Debug().Str("reason", outcome).Msg("session token rejected")
		metrics.SessionRestoreTotal.WithLabelValues(outcome).Inc()
		cookies.Clear(c)
		return
	}

	user, err := users.FindByID(ctx, payload.ID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound) || (err == nil && user == nil):
		log.Debug().Str("user_id", payload.ID).Msg("session user no longer exists")
		metrics.SessionRestoreTotal.WithLabelValues("user_not_found").Inc()
		cookies.Clear(c)
		return
	case err != nil:
		log.Warn().Err(err).Str("user_id", payload.ID).Msg("session user lookup failed")
		metrics.SessionRestoreTotal.WithLabelValues("store_fault").Inc()
		cookies.Clear(c)
		return
	}

	metrics.SessionRestoreTotal.WithLabelValues("restored").Inc()
	session.SetUser(c, user)
}
