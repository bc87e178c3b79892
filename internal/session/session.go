// Package session описывает вызывающего пользователя, который явно передается
// из транспортного слоя в сервисы.
package session

import (
	"context"

	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
)

// Caller аутентифицированный пользователь текущего запроса
type Caller struct {
	UserID string
	Email  string
	Role   rbac.Role
	// Admin значение admin-claim на момент выпуска токена
	Admin bool
}

// FromClaims строит Caller из проверенного access токена
func FromClaims(claims *jwt.Claims) *Caller {
	if claims == nil || claims.UserID == "" {
		return nil
	}
	return &Caller{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   rbac.RoleFor(claims.Role, claims.Admin),
		Admin:  claims.Admin,
	}
}

// IsAuthenticated безопасен для nil
func (c *Caller) IsAuthenticated() bool {
	return c != nil && c.UserID != ""
}

// Can проверяет разрешение роли вызывающего
func (c *Caller) Can(r *rbac.RBAC, permission rbac.Permission) bool {
	if !c.IsAuthenticated() || r == nil {
		return false
	}
	return r.CheckPermissionWithRole(c.Role, permission)
}

type ctxKey struct{}

// WithCaller кладет Caller в контекст запроса. Используется только транспортом.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext достает Caller, положенный AuthMiddleware; nil если запрос анонимный
func FromContext(ctx context.Context) *Caller {
	c, _ := ctx.Value(ctxKey{}).(*Caller)
	return c
}
