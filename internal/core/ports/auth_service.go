package ports

import (
	"context"

	"github.com/99minutos/identity-api/internal/core/domain"
)

// SignupInput carries already-validated signup fields.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// LoginInput carries login fields. ClientKey identifies the caller for
// attempt throttling (the client IP in the HTTP layer).
type LoginInput struct {
	Credential string
	Password   string
	ClientKey  string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.SafeUser, error)
	Login(ctx context.Context, in LoginInput) (*domain.SafeUser, error)
}
