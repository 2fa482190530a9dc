package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL bounds how long a session token is accepted.
const TokenTTL = 24 * time.Hour

var jwtSecret []byte

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a token bound to one game session.
func GenerateJWT(sessionID string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not initialized")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"exp":        now.Add(TokenTTL).Unix(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a token and returns its session id.
func ParseJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", errors.New("session_id not found")
	}

	return sessionID, nil
}
