// Package auth issues and verifies the signed session tokens backing the
// admin cookie.
package auth

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/photovault/internal/common"
)

// Claims carries the single session flag next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Admin bool
}

// GenerateSessionToken signs an admin session token valid for the given
// duration (HS256).
func GenerateSessionToken(secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Admin: true,
	})

	return token.SignedString(secretKey)
}

// VerifySessionToken validates signature and expiry and requires the admin
// flag. Any failure maps to common.ErrInvalidToken.
func VerifySessionToken(tokenString string, secretKey []byte) error {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return common.ErrInvalidToken
	}

	if !token.Valid || !claims.Admin {
		return common.ErrInvalidToken
	}

	return nil
}

// CheckPassword compares a login attempt against the configured admin
// secret in constant time.
func CheckPassword(candidate, password string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(password)) == 1
}
