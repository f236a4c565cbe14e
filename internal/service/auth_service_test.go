package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(role models.UserRole) *models.JWTClaims {
	now := time.Now().UTC()
	return &models.JWTClaims{
		UserID: "u1",
		Role:   role,
		Email:  "tutor@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tutor-scheduling",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestValidateTokenAcceptsSignedClaims(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{Secret: testSecret, Issuer: "tutor-scheduling"})
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(models.RoleTutor))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleTutor, claims.Role)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{Secret: testSecret, Issuer: "tutor-scheduling"})

	expired := validClaims(models.RoleStudent)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims(models.RoleStudent)
	wrongIssuer.Issuer = "someone-else"

	unknownRole := validClaims(models.UserRole("GUEST"))

	noUser := validClaims(models.RoleStudent)
	noUser.UserID = ""

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims(models.RoleStudent)),
		"wrong method": signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(models.RoleStudent)),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
		"wrong issuer": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer),
		"unknown role": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), unknownRole),
		"missing user": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noUser),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
		})
	}
}

func TestValidateTokenWithoutIssuerCheck(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{Secret: testSecret})
	claims := validClaims(models.RoleAdmin)
	claims.Issuer = "anything"

	got, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}
