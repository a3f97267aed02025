package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UsernameKey is the gin context key holding the authenticated username.
const UsernameKey = "username"

var ErrInvalidToken = errors.New("invalid token")

// IssueUserToken signs an HS256 token carrying the username.
func IssueUserToken(username, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUserToken validates raw and returns its username claim.
func ParseUserToken(raw, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	username, ok := claims["username"].(string)
	if !ok || strings.TrimSpace(username) == "" {
		return "", ErrInvalidToken
	}
	return username, nil
}

// bearerToken extracts the token from the Authorization header. ok is false
// when the header is absent; a malformed header yields ok with an empty token.
func bearerToken(c *gin.Context) (token string, ok bool) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return "", false
	}
	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// Username returns the authenticated username set by the auth middleware.
func Username(c *gin.Context) (string, bool) {
	v, ok := c.Get(UsernameKey)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok
}
