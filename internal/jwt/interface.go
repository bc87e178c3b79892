package jwt

import "time"

type TokenManager interface {
	GenerateTokenPair(userID, email, role string, admin bool) (string, string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	GetTokenExpiry(tokenType string) time.Duration
}
