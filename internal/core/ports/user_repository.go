package ports

import (
	"context"

	"github.com/99minutos/identity-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Single-record lookups that match nothing return domain.ErrUserNotFound; Create returns
// domain.ErrUserExists when a unique email or username constraint is hit.
type UserRepository interface {
	// FindByEmailOrUsername returns every record whose email or username
	// matches, at most one per field. No match is an empty slice, not an error.
	FindByEmailOrUsername(ctx context.Context, email, username string) ([]*domain.User, error)
	// FindByCredential returns the record whose email or username equals credential,
	// including its password hash.
	FindByCredential(ctx context.Context, credential string) (*domain.User, error)
	// FindByID loads the sanitized projection only; the password hash is never read.
	FindByID(ctx context.Context, id string) (*domain.SafeUser, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
