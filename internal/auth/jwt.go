// Package auth provides identity token issuing and verification plus the
// HTTP middleware that guards protected routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/omnilingu/backend/internal/config"
	"github.com/omnilingu/backend/internal/utils"
)

// Token errors
var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrInvalidTokenClaims   = errors.New("invalid token claims")
)

// CustomClaims represents the claims in an identity token
type CustomClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens
type TokenService struct {
	config *config.TokenSettings
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg *config.TokenSettings) *TokenService {
	return &TokenService{
		config: cfg,
	}
}

// GenerateToken issues a new signed identity token for a user
func (s *TokenService) GenerateToken(userID int64, email string) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies a token and returns its claims if valid.
// Expired, malformed, and wrongly signed tokens all come back as the
// same invalid-token error; the middleware does not distinguish them.
func (s *TokenService) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	if !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// ExtractUserIDFromToken extracts the user ID from a token string
func (s *TokenService) ExtractUserIDFromToken(tokenString string) (int64, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
