package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

var ErrInvalidToken = errors.New("invalid session token")

// GenerateToken creates a signed session token for a principal routed past
// the login gate.
func GenerateToken(secret, uid, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  uid,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken verifies encodedToken and returns its uid and role.
func ValidateToken(secret, encodedToken string) (string, string, error) {
	token, err := jwt.Parse(encodedToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}

	uid, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if uid == "" || role == "" {
		return "", "", ErrInvalidToken
	}
	return uid, role, nil
}
