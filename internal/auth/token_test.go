package auth

import (
	"testing"
	"time"

	"github.com/crucial707/listing-admin/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &models.User{ID: 7, Username: "admin", Role: models.RoleAdmin}

func TestTokenService_IssueThenVerify(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), 0)

	tok, err := svc.Issue(admin)
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, DefaultTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	tok, err := NewTokenService([]byte("secret-a"), time.Hour).Issue(admin)
	require.NoError(t, err)

	_, err = NewTokenService([]byte("secret-b"), time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	past := time.Now().Add(-25 * time.Hour)
	svc := NewTokenService([]byte("test-secret"), 24*time.Hour)

	tok, err := svc.WithClock(func() time.Time { return past }).Issue(admin)
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_ExpiresAfterTTL(t *testing.T) {
	start := time.Now()
	svc := NewTokenService([]byte("test-secret"), time.Hour).WithClock(func() time.Time { return start })

	tok, err := svc.Issue(admin)
	require.NoError(t, err)

	_, err = svc.WithClock(func() time.Time { return start.Add(59 * time.Minute) }).Verify(tok)
	assert.NoError(t, err)
	_, err = svc.WithClock(func() time.Time { return start.Add(61 * time.Minute) }).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	for _, in := range []string{"", "abc", "a.b.c", "Bearer x.y.z"} {
		_, err := svc.Verify(in)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", in)
	}
}

func TestTokenService_Verify_RejectsOtherAlgorithms(t *testing.T) {
	secret := []byte("test-secret")
	claims := Claims{
		UserID: 7, Username: "admin", Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	svc := NewTokenService(secret, time.Hour)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_MissingExpiry(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 7}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService(secret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
