package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

func TestGenerateAndValidate(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")
	config.Set("JWT_TTL", "")

	token, err := auth.GenerateToken("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	claims, err := auth.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 7*24*time.Hour, ttl)
}

func TestValidateToken_Failures(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")

	_, err := auth.ValidateToken("")
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	_, err = auth.ValidateToken("not.a.jwt")
	assert.Error(t, err)

	config.Set("JWT_SECRET", "other-secret")
	token, err := auth.GenerateToken("abc")
	require.NoError(t, err)
	config.Set("JWT_SECRET", "test-secret")
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateToken_Expired(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")
	claims := auth.Claims{
		UserID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, auth.CheckPassword(hash, "s3cret!"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
