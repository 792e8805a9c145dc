package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/middleware"
	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/core/ports"
)

// DevHandler serves the CSRF bootstrap route and the session diagnostics used
// while building the frontend.
type DevHandler struct {
	users      ports.UserRepository
	cookies    *session.CookieManager
	production bool
}

func NewDevHandler(users ports.UserRepository, cookies *session.CookieManager, production bool) *DevHandler {
	return &DevHandler{users: users, cookies: cookies, production: production}
}

// RestoreCSRF exposes the CSRF token in a script-readable XSRF-TOKEN cookie.
//
// @Summary      Restore CSRF token
// @Tags         csrf
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /csrf/restore [get]
func (h *DevHandler) RestoreCSRF(c echo.Context) error {
	token, _ := c.Get(middleware.CSRFContextKey).(string)
	cookie := &http.Cookie{
		Name:     middleware.XSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	}
	if h.production {
		cookie.SameSite = http.SameSiteLaxMode
	}
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, map[string]string{"XSRF-Token": token})
}

// RestoredUser returns the identity restored for this request, or null.
//
// @Summary      Restored user
// @Tags         debug
// @Produce      json
// @Success      200  {object}  domain.SafeUser
// @Router       /restore-user [get]
func (h *DevHandler) RestoredUser(c echo.Context) error {
	return c.JSON(http.StatusOK, session.User(c))
}

// SetDemoToken logs in as the seeded demo user. Not available in production.
//
// @Summary      Issue a session for the demo user
// @Tags         debug
// @Produce      json
// @Success      200  {object}  demoSessionResponse
// @Failure      404  {object}  errorResponse
// @Router       /set-token-cookie [get]
func (h *DevHandler) SetDemoToken(c echo.Context) error {
	if h.production {
		return echo.ErrNotFound
	}

	user, err := h.users.FindByCredential(c.Request().Context(), domain.DemoUsername)
	if errors.Is(err, domain.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "demo user not found, run the seed command")
	}
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("demo session: %w", err))
	}

	safe := user.Safe()
	token, err := h.cookies.Issue(c, safe)
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("demo session: issue: %w", err))
	}
	return c.JSON(http.StatusOK, demoSessionResponse{User: safe, Token: token})
}

// EchoBody returns the decoded JSON body. Used to check CSRF wiring.
//
// @Summary      Echo request body
// @Tags         debug
// @Accept       json
// @Produce      json
// @Param        XSRF-Token  header    string  true  "CSRF token"
// @Success      200         {object}  map[string]interface{}
// @Router       /test [post]
func (h *DevHandler) EchoBody(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, map[string]any{"requestBody": body})
}
