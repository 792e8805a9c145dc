package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("session token secret is not configured")
	ErrInvalidTTL    = errors.New("session token ttl must be positive")
)

// VerifyErrorKind distinguishes why a session token was rejected. Callers
// treat every kind the same way; the kind exists for logs and metrics.
type VerifyErrorKind int

const (
	TokenMalformed VerifyErrorKind = iota + 1
	TokenSignatureInvalid
	TokenExpired
)

func (k VerifyErrorKind) String() string {
	switch k {
	case TokenMalformed:
		return "token_malformed"
	case TokenSignatureInvalid:
		return "token_signature_invalid"
	case TokenExpired:
		return "token_expired"
	default:
		return "unknown"
	}
}

// VerifyError is returned by TokenCodec.Verify.
type VerifyError struct {
	Kind VerifyErrorKind
	Err  error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify session token: %s: %v", e.Kind, e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// TokenPayload is the identity embedded in a session token.
type TokenPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type sessionClaims struct {
	Data TokenPayload `json:"data"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed, time-limited session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec fails when the secret is empty or the ttl is not positive;
// both are startup misconfigurations.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL is the lifetime of issued tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func (c *TokenCodec) Issue(payload TokenPayload) (string, error) {
	now := c.now()
	claims := sessionClaims{
		Data: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (c *TokenCodec) Verify(token string) (TokenPayload, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return TokenPayload{}, &VerifyError{Kind: classify(err), Err: err}
	}
	if !parsed.Valid {
		return TokenPayload{}, &VerifyError{Kind: TokenMalformed, Err: jwt.ErrTokenInvalidClaims}
	}
	if claims.Data.ID == "" {
		return TokenPayload{}, &VerifyError{Kind: TokenMalformed, Err: errors.New("token payload has no user id")}
	}
	return claims.Data, nil
}

func classify(err error) VerifyErrorKind {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return TokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return TokenExpired
	default:
		return TokenMalformed
	}
}
