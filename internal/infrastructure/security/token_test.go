package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adaPayload = TokenPayload{ID: "64b7f0c2a1b2c3d4e5f60718", Email: "ada@x.com", Username: "adalove"}

func verifyKind(t *testing.T, err error) VerifyErrorKind {
	t.Helper()
	var ve *VerifyError
	require.True(t, errors.As(err, &ve), "expected *VerifyError, got %T: %v", err, err)
	return ve.Kind
}

func TestNewTokenCodec_Misconfiguration(t *testing.T) {
	_, err := NewTokenCodec("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenCodec("secret", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = NewTokenCodec("secret", -time.Second)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := codec.Issue(adaPayload)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, adaPayload, got)
}

func TestTokenCodec_RoundTripWithinWindow(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := codec.WithClock(func() time.Time { return issuedAt }).Issue(adaPayload)
	require.NoError(t, err)

	later := codec.WithClock(func() time.Time { return issuedAt.Add(59 * time.Minute) })
	got, err := later.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, adaPayload, got)
}

func TestTokenCodec_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := codec.WithClock(func() time.Time { return issuedAt }).Issue(adaPayload)
	require.NoError(t, err)

	expired := codec.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	_, err = expired.Verify(token)
	require.Error(t, err)
	assert.Equal(t, TokenExpired, verifyKind(t, err))
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer, err := NewTokenCodec("right-secret", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenCodec("wrong-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(adaPayload)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.Equal(t, TokenSignatureInvalid, verifyKind(t, err))
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := codec.Issue(adaPayload)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	require.Error(t, err)
	assert.Equal(t, TokenSignatureInvalid, verifyKind(t, err))
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "not.a.jwt"} {
		_, err := codec.Verify(token)
		require.Error(t, err, token)
		assert.Equal(t, TokenMalformed, verifyKind(t, err), token)
	}
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	claims := sessionClaims{
		Data: adaPayload,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.Equal(t, TokenSignatureInvalid, verifyKind(t, err))
}

func TestTokenCodec_RequiresExpiryAndID(t *testing.T) {
	codec, err := NewTokenCodec("super-secret", time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{Data: adaPayload}).
		SignedString([]byte("super-secret"))
	require.NoError(t, err)
	_, err = codec.Verify(noExp)
	require.Error(t, err)
	assert.Equal(t, TokenMalformed, verifyKind(t, err))

	noID, err := codec.Issue(TokenPayload{Email: "ada@x.com"})
	require.NoError(t, err)
	_, err = codec.Verify(noID)
	require.Error(t, err)
	assert.Equal(t, TokenMalformed, verifyKind(t, err))
}
