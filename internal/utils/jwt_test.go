package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"agroshop_back_end/internal/models"
)

func TestGenerateJWT(t *testing.T) {
	u := models.User{
		ID:       "0f2b7c1e-0000-1000-8000-000000000001",
		Username: "ramesh",
		Email:    "ramesh@example.com",
		Role:     models.RoleCustomer,
	}

	tokenString, err := GenerateJWT(u)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, u.ID, claims["user_id"])
	assert.Equal(t, u.Email, claims["email"])
	assert.Equal(t, models.RoleCustomer, claims["role"])

	// Expiration à 24h
	exp, ok := claims["exp"].(float64)
	assert.True(t, ok)
	assert.InDelta(t, time.Now().Add(24*time.Hour).Unix(), int64(exp), 60)
}

func TestJWTSecretDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Equal(t, []byte("super_secret"), JWTSecret())

	t.Setenv("JWT_SECRET", "from-env")
	assert.Equal(t, []byte("from-env"), JWTSecret())
}
