package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agroshop_back_end/internal/models"
)

// JWTSecret lit le secret à chaque appel pour rester testable
// (pas de capture à l'init du package).
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateJWT signe un token HS256 de 24h portant l'identité et le rôle.
func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}
