// Package auth verifies bearer tokens issued by the identity provider and exposes the caller's email.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
)

const userEmailKey = "user_email"

// Claims carried by an access token. Email identifies the user everywhere in the API.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for email valid for ttl
func IssueToken(secret, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the signature and expiry of raw and returns its claims
func ParseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, errors.New("token has no email claim")
	}
	return claims, nil
}

// Authenticate rejects requests without a valid bearer token
func Authenticate(secret string) gin.HandlerFunc {
	log := logger.Auth()

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.UnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := ParseToken(secret, raw)
		if err != nil {
			log.Warn("Rejected token", "path", c.Request.URL.Path, "error", err)
			response.UnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userEmailKey, strings.TrimSpace(claims.Email))
		c.Next()
	}
}

// UserEmail returns the authenticated caller, or "" on public routes
func UserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
