package auth

// TokenValidator defines the interface for identity token validation
type TokenValidator interface {
	// ValidateToken verifies a token and returns its claims if valid
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// Compile-time check that TokenService satisfies TokenValidator.
var _ TokenValidator = (*TokenService)(nil)
