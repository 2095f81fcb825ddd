// Package auth issues and verifies signed admin bearer tokens
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mediarating/backend/internal/models"
)

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret      string
	tokenExpiry time.Duration
	now         func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, tokenExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:      secret,
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}
}

// GenerateToken signs a token carrying the admin username as subject
func (tg *TokenGenerator) GenerateToken(subject string, isSuperAdmin bool) (string, error) {
	now := tg.now()
	claims := jwt.MapClaims{
		"sub":            subject,
		"is_super_admin": isSuperAdmin,
		"exp":            now.Add(tg.tokenExpiry).Unix(),
		"iat":            now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies the signature and expiry of a token and returns its claims
func (tg *TokenGenerator) ValidateToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(tg.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("sub not found in token")
	}

	isSuperAdmin, _ := claims["is_super_admin"].(bool)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("exp not found in token")
	}

	return &models.Claims{
		Subject:      subject,
		IsSuperAdmin: isSuperAdmin,
		ExpiresAt:    exp.Time,
	}, nil
}
