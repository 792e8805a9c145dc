package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/core/ports"
)

type SessionHandler struct {
	authService ports.AuthService
	cookies     *session.CookieManager
}

func NewSessionHandler(authService ports.AuthService, cookies *session.CookieManager) *SessionHandler {
	return &SessionHandler{authService: authService, cookies: cookies}
}

// Login authenticates by email or username and sets the session cookie.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        XSRF-Token  header    string        true  "CSRF token"
// @Param        body        body      loginRequest  true  "Credentials"
// @Success      200         {object}  userResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      429         {object}  errorResponse
// @Router       /session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Credential: req.Credential,
		Password:   req.Password,
		ClientKey:  c.RealIP(),
	})
	if err != nil {
		return err
	}

	if _, err := h.cookies.Issue(c, user); err != nil {
		return domain.NewInternalError(fmt.Errorf("login: issue session: %w", err))
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Logout clears the session cookie.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Param        XSRF-Token  header    string  true  "CSRF token"
// @Success      200         {object}  messageResponse
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "success"})
}

// Current returns the restored user, or null for anonymous callers.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse{User: session.User(c)})
}
