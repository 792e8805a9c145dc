package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/core/ports"
)

// PasswordHasher abstracts the credential hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// AuthService implements signup and login against the user store.
type AuthService struct {
	repo     ports.UserRepository
	hasher   PasswordHasher
	throttle ports.LoginThrottle
	metrics  ports.AuthMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService builds an AuthService. throttle may be nil, which disables
// login attempt limiting; metrics may be nil, which drops outcome counts.
func NewAuthService(repo ports.UserRepository, hasher PasswordHasher, throttle ports.LoginThrottle, metrics ports.AuthMetrics, log zerolog.Logger) *AuthService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		throttle: throttle,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

type noopMetrics struct{}

func (noopMetrics) SignupOutcome(string) {}
func (noopMetrics) LoginOutcome(string)  {}

// Signup creates a user when neither the email nor the username is taken and
// returns its sanitized projection.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.SafeUser, error) {
	existing, err := s.repo.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		s.metrics.SignupOutcome("error")
		return nil, domain.NewInternalError(fmt.Errorf("signup: check existing user: %w", err))
	}
	if len(existing) > 0 {
		s.metrics.SignupOutcome("conflict")
		return nil, domain.NewConflictError(conflictFields(existing, in.Email, in.Username))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.metrics.SignupOutcome("error")
		return nil, domain.NewInternalError(fmt.Errorf("signup: %w", err))
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		// Lost a race with a concurrent signup; the unique index caught it.
		s.metrics.SignupOutcome("conflict")
		return nil, s.conflictAfterRace(ctx, in)
	}
	if err != nil {
		s.metrics.SignupOutcome("error")
		return nil, domain.NewInternalError(fmt.Errorf("signup: create user: %w", err))
	}

	s.metrics.SignupOutcome("created")
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user signed up")
	return created.Safe(), nil
}

func (s *AuthService) conflictAfterRace(ctx context.Context, in ports.SignupInput) error {
	existing, err := s.repo.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil || len(existing) == 0 {
		s.log.Warn().Err(err).Msg("signup: duplicate key but colliding user not readable")
		return domain.NewConflictError(map[string]string{})
	}
	return domain.NewConflictError(conflictFields(existing, in.Email, in.Username))
}

// conflictFields marks each requested field that some existing record holds.
func conflictFields(existing []*domain.User, email, username string) map[string]string {
	fields := make(map[string]string, 2)
	for _, u := range existing {
		if u.Email == email {
			fields["email"] = domain.MsgEmailTaken
		}
		if u.Username == username {
			fields["username"] = domain.MsgUsernameTaken
		}
	}
	return fields
}

// Login verifies a credential (email or username) and password pair.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.SafeUser, error) {
	if s.throttle != nil && in.ClientKey != "" {
		wait, err := s.throttle.Blocked(ctx, in.ClientKey)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if wait > 0 {
			s.metrics.LoginOutcome("throttled")
			return nil, domain.NewTooManyAttemptsError(wait)
		}
	}

	user, err := s.repo.FindByCredential(ctx, strings.TrimSpace(in.Credential))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.metrics.LoginOutcome("error")
		return nil, domain.NewInternalError(fmt.Errorf("login: find user: %w", err))
	}
	if user == nil || !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.recordFailure(ctx, in.ClientKey)
		s.metrics.LoginOutcome("failed")
		return nil, domain.NewInvalidCredentialsError()
	}

	if s.throttle != nil && in.ClientKey != "" {
		if err := s.throttle.Reset(ctx, in.ClientKey); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	s.metrics.LoginOutcome("success")
	return user.Safe(), nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.throttle == nil || key == "" {
		return
	}
	if err := s.throttle.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
