package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/identity-api/internal/core/domain"
)

// SeedDemo creates the demo account. It reports created=false when the
// account already exists.
func (s *AuthService) SeedDemo(ctx context.Context) (created bool, err error) {
	_, err = s.repo.FindByCredential(ctx, domain.DemoUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("seed: lookup demo user: %w", err)
	}

	hash, err := s.hasher.Hash(domain.DemoPassword)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	now := s.now().UTC()
	_, err = s.repo.Create(ctx, &domain.User{
		FirstName:    domain.DemoFirstName,
		LastName:     domain.DemoLastName,
		Email:        domain.DemoEmail,
		Username:     domain.DemoUsername,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed: create demo user: %w", err)
	}
	s.log.Info().Str("username", domain.DemoUsername).Msg("demo user seeded")
	return true, nil
}
