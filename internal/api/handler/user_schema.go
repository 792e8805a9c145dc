package handler

import "github.com/99minutos/identity-api/internal/core/domain"

type signupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Username  string `json:"username"  validate:"required,min=4,notemail"`
	Password  string `json:"password"  validate:"required,min=6"`
}

type loginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type userResponse struct {
	User *domain.SafeUser `json:"user"`
}

type demoSessionResponse struct {
	User  *domain.SafeUser `json:"user"`
	Token string           `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
