package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims представляет структуру claims в JWT токене.
// Admin зеркалирует admin-claim учетной записи и меняется только при перевыпуске токена.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Admin     bool   `json:"admin"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager управляет JWT токенами
type JWTManager struct {
	secretKey     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTManager создает новый JWT менеджер
func NewJWTManager(cfg *config.Config) *JWTManager {
	if cfg.JWTSecretKey == "" {
		return nil
	}
	return &JWTManager{
		secretKey:     cfg.JWTSecretKey,
		accessExpiry:  time.Hour,          // 1 час
		refreshExpiry: time.Hour * 24 * 7, // 7 дней
	}
}

// GenerateTokenPair генерирует пару access и refresh токенов
func (j *JWTManager) GenerateTokenPair(userID, email, role string, admin bool) (string, string, error) {
	accessToken, err := j.generateToken(userID, email, role, admin, TokenTypeAccess, j.accessExpiry)
	if err != nil {
		return "", "", app_errors.ErrFailedToGenerateAccessToken
	}

	refreshToken, err := j.generateToken(userID, email, role, admin, TokenTypeRefresh, j.refreshExpiry)
	if err != nil {
		return "", "", app_errors.ErrFailedToGenerateRefreshToken
	}

	return accessToken, refreshToken, nil
}

func (j *JWTManager) generateToken(userID, email, role string, admin bool, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		Admin:     admin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *JWTManager) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, app_errors.ErrUnexpectedSigningMethod
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, app_errors.ErrFailedToParseToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, app_errors.ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken валидирует access токен и возвращает claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, app_errors.ErrWrongTokenType
	}
	return claims, nil
}

// ValidateRefreshToken валидирует refresh токен.
// Новые токены выпускает auth после перечитывания учетной записи.
func (j *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, app_errors.ErrInvalidRefreshToken
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, app_errors.ErrWrongTokenType
	}
	return claims, nil
}

// GetTokenExpiry возвращает время истечения токена
func (j *JWTManager) GetTokenExpiry(tokenType string) time.Duration {
	switch tokenType {
	case TokenTypeRefresh:
		return j.refreshExpiry
	default:
		return j.accessExpiry
	}
}

// ExtractTokenFromHeader извлекает токен из Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", app_errors.ErrAuthHeaderEmpty
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
		return "", app_errors.ErrAuthHeaderWrongFormat
	}

	return authHeader[len(bearerPrefix):], nil
}
