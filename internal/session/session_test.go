package session

import (
	"context"
	"testing"

	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClaims(t *testing.T) {
	c := FromClaims(&jwt.Claims{UserID: "u1", Email: "u1@example.com", Role: "user", Admin: true})
	require.NotNil(t, c)
	assert.Equal(t, rbac.RoleAdmin, c.Role)
	assert.True(t, c.Admin)

	assert.Nil(t, FromClaims(nil))
	assert.Nil(t, FromClaims(&jwt.Claims{}))
}

func TestCaller_Can(t *testing.T) {
	r := rbac.NewRBAC()

	var anon *Caller
	assert.False(t, anon.IsAuthenticated())
	assert.False(t, anon.Can(r, rbac.PermissionCatalogView))

	user := &Caller{UserID: "u1", Role: rbac.RoleUser}
	assert.True(t, user.Can(r, rbac.PermissionWatchBookmark))
	assert.False(t, user.Can(r, rbac.PermissionCatalogManage))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	c := &Caller{UserID: "u1"}
	assert.Same(t, c, FromContext(WithCaller(ctx, c)))
}
