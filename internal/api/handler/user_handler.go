package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
	cookies     *session.CookieManager
}

func NewUserHandler(authService ports.AuthService, cookies *session.CookieManager) *UserHandler {
	return &UserHandler{authService: authService, cookies: cookies}
}

// Signup creates a user account and logs it in.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        XSRF-Token  header    string         true  "CSRF token"
// @Param        body        body      signupRequest  true  "New user"
// @Success      201         {object}  userResponse
// @Failure      400         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	if _, err := h.cookies.Issue(c, user); err != nil {
		return domain.NewInternalError(fmt.Errorf("signup: issue session: %w", err))
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}
