package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	// Setup
	svc := NewJWTService("test-secret", time.Hour)

	// Act
	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@b.com", user.RoleAdmin)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims := decoded.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "a@b.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestJWTService_StreamToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresIn, err := svc.GenerateStreamToken("user-1", user.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	claims, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, user.RoleSuperAdmin, claims.Role)
}

func TestJWTService_ValidateStreamToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, _, err := svc.GenerateAccessToken("user-1", "a@b.com", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(token)

	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTService_ValidateStreamToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-10 * time.Minute) }
	token, _, err := svc.GenerateStreamToken("user-1", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(token)

	assert.Error(t, err)
}

func TestJWTService_ValidateStreamToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)
	token, _, err := issuer.GenerateStreamToken("user-1", user.RoleEmployee)
	require.NoError(t, err)

	_, err = verifier.ValidateStreamToken(token)

	assert.Error(t, err)
}

func TestJWTService_RevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	svc.RevokeToken("stale", time.Now().Add(-time.Minute))
	svc.RevokeToken("fresh", time.Now().Add(time.Hour))

	assert.True(t, svc.IsTokenRevoked("fresh"))
	// swept by the second call
	assert.False(t, svc.IsTokenRevoked("stale"))
	assert.False(t, svc.IsTokenRevoked("other"))
}
