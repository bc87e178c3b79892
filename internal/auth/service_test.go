package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/cache"
	cachemocks "github.com/lumiforge/kinoteka-backend/internal/cache/mocks"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	"github.com/lumiforge/kinoteka-backend/internal/email"
	emailmocks "github.com/lumiforge/kinoteka-backend/internal/email/mocks"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	jwtmocks "github.com/lumiforge/kinoteka-backend/internal/jwt/mocks"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	storagemocks "github.com/lumiforge/kinoteka-backend/internal/storage/mocks"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/kinoteka-backend/internal/ydb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testDeps struct {
	db      *ydbmocks.Database
	jwt     *jwtmocks.TokenManager
	email   *emailmocks.Notifier
	storage *storagemocks.StorageProvider
}

// setupAuthService создает сервис с моками
func setupAuthService(t *testing.T, c cache.Cache) (*Service, testDeps) {
	deps := testDeps{
		db:      ydbmocks.NewDatabase(t),
		jwt:     jwtmocks.NewTokenManager(t),
		email:   emailmocks.NewNotifier(t),
		storage: storagemocks.NewStorageProvider(t),
	}
	cfg := &config.Config{AvatarMaxBytes: 1 << 20}
	svc := NewService(deps.db, deps.jwt, rbac.NewRBAC(), deps.email, deps.storage, c, audit.NewService(deps.db, nil), cfg)
	return svc, deps
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register_Success(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()

	deps.db.On("GetAccountByEmail", ctx, "test@example.com").Return(nil, app_errors.ErrAccountNotFound)
	deps.db.On("CreateAccount", ctx, mock.MatchedBy(func(a *ydb.Account) bool {
		return a.Email == "test@example.com" && !a.AdminClaim &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("password123")) == nil
	})).Return(nil)
	deps.db.On("UpsertUserProfile", ctx, mock.MatchedBy(func(p *ydb.UserProfile) bool {
		return p.Email == "test@example.com" && p.DisplayName != nil && *p.DisplayName == "Тест"
	})).Return(nil)
	deps.db.On("MergeUserRole", ctx, mock.AnythingOfType("string"), "user", false).Return(nil)
	deps.db.On("CreateAuditLog", ctx, mock.MatchedBy(func(l *ydb.AuditLog) bool {
		return l.ActionType == string(models.AuditRegisterSuccess)
	})).Return(nil)
	deps.jwt.On("GenerateTokenPair", mock.AnythingOfType("string"), "test@example.com", "user", false).Return("access", "refresh", nil)
	deps.jwt.On("GetTokenExpiry", jwt.TokenTypeAccess).Return(15 * time.Minute)
	deps.email.On("IsConfigured").Return(true)
	deps.email.On("SendWelcomeEmail", ctx, "test@example.com", "Тест").Return(nil, errors.New("ses down"))

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email:       " Test@Example.com ",
		Password:    "password123",
		DisplayName: "Тест",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"bad email", models.RegisterRequest{Email: "not-an-email", Password: "password123"}},
		{"short password", models.RegisterRequest{Email: "a@example.com", Password: "short"}},
		{"long password", models.RegisterRequest{Email: "a@example.com", Password: string(bytes.Repeat([]byte("x"), 73))}},
		{"xss in name", models.RegisterRequest{Email: "a@example.com", Password: "password123", DisplayName: "<script>alert(1)</script>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupAuthService(t, nil)
			_, err := svc.Register(context.Background(), &tt.req)
			assert.True(t, app_errors.Is(err, app_errors.KindInvalidArgument), "got %v", err)
		})
	}
}

func TestService_Register_EmailTaken(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()

	deps.db.On("GetAccountByEmail", ctx, "taken@example.com").Return(&ydb.Account{AccountID: "u1"}, nil)

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "taken@example.com", Password: "password123"})
	assert.ErrorIs(t, err, app_errors.ErrEmailAlreadyExists)
}

func TestService_Login_Success(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()

	deps.db.On("GetAccountByEmail", ctx, "admin@example.com").Return(&ydb.Account{
		AccountID:    "u1",
		Email:        "admin@example.com",
		PasswordHash: hashed(t, "password123"),
		AdminClaim:   true,
	}, nil)
	deps.db.On("GetUserProfile", ctx, "u1").Return(&ydb.UserProfile{UserID: "u1", Email: "admin@example.com", Role: "admin", IsAdmin: true}, nil)
	deps.jwt.On("GenerateTokenPair", "u1", "admin@example.com", "admin", true).Return("access", "refresh", nil)
	deps.jwt.On("GetTokenExpiry", jwt.TokenTypeAccess).Return(15 * time.Minute)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "admin", resp.User.Role)
	assert.True(t, resp.User.IsAdmin)
}

func TestService_Login_WrongPasswordCountsAttempt(t *testing.T) {
	c := cachemocks.NewCache(t)
	svc, deps := setupAuthService(t, c)
	ctx := context.Background()
	key := cache.LoginAttemptsKey("user@example.com")

	c.On("GetJSON", ctx, key, mock.Anything).Return(false, nil)
	c.On("Incr", ctx, key, loginAttemptWindow).Return(int64(1), nil)
	deps.db.On("GetAccountByEmail", ctx, "user@example.com").Return(&ydb.Account{
		AccountID:    "u1",
		Email:        "user@example.com",
		PasswordHash: hashed(t, "password123"),
	}, nil)

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, app_errors.ErrInvalidCredentials)
}

func TestService_Login_TooManyAttempts(t *testing.T) {
	c := cachemocks.NewCache(t)
	svc, _ := setupAuthService(t, c)
	ctx := context.Background()

	c.On("GetJSON", ctx, cache.LoginAttemptsKey("user@example.com"), mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*int64) = maxLoginAttempts
		}).
		Return(true, nil)

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "password123"})
	assert.True(t, app_errors.Is(err, app_errors.KindPermissionDenied))
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()

	deps.db.On("GetAccountByEmail", ctx, "ghost@example.com").Return(nil, app_errors.ErrAccountNotFound)

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, app_errors.ErrInvalidCredentials)
}

func TestService_RefreshToken_PicksUpNewAdminClaim(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()

	deps.jwt.On("ValidateRefreshToken", "old-refresh").Return(&jwt.Claims{UserID: "u1", Role: "user"}, nil)
	deps.db.On("GetAccountByID", ctx, "u1").Return(&ydb.Account{AccountID: "u1", Email: "u1@example.com", AdminClaim: true}, nil)
	deps.db.On("GetUserProfile", ctx, "u1").Return(&ydb.UserProfile{UserID: "u1", Role: "admin", IsAdmin: true}, nil)
	deps.jwt.On("GenerateTokenPair", "u1", "u1@example.com", "admin", true).Return("access", "refresh", nil)
	deps.jwt.On("GetTokenExpiry", jwt.TokenTypeAccess).Return(15 * time.Minute)

	resp, err := svc.RefreshToken(ctx, "old-refresh")

	require.NoError(t, err)
	assert.True(t, resp.Admin)
	assert.Equal(t, "refresh", resp.RefreshToken)
}

func TestService_RefreshToken_Invalid(t *testing.T) {
	svc, deps := setupAuthService(t, nil)

	deps.jwt.On("ValidateRefreshToken", "garbage").Return(nil, app_errors.ErrInvalidRefreshToken)

	_, err := svc.RefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, app_errors.ErrInvalidRefreshToken)
}

func TestService_GetProfile_InitializesMissingProfile(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()
	caller := &session.Caller{UserID: "u1", Role: rbac.RoleUser}

	deps.db.On("GetAccountByID", ctx, "u1").Return(&ydb.Account{AccountID: "u1", Email: "u1@example.com"}, nil)
	deps.db.On("GetUserProfile", ctx, "u1").Return(nil, app_errors.ErrUserNotFound)
	deps.db.On("UpsertUserProfile", ctx, mock.AnythingOfType("*ydb.UserProfile")).Return(nil)
	deps.db.On("MergeUserRole", ctx, "u1", "user", false).Return(nil)

	user, err := svc.GetProfile(ctx, caller)

	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "u1@example.com", user.Email)
}

func TestService_GetProfile_Unauthenticated(t *testing.T) {
	svc, _ := setupAuthService(t, nil)

	_, err := svc.GetProfile(context.Background(), nil)
	assert.ErrorIs(t, err, app_errors.ErrUnauthenticated)
}

func TestService_UpdateProfile(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()
	caller := &session.Caller{UserID: "u1", Role: rbac.RoleUser}
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	deps.db.On("GetUserProfile", ctx, "u1").Return(&ydb.UserProfile{UserID: "u1", DateOfBirth: &dob}, nil)
	deps.db.On("UpsertUserProfile", ctx, mock.MatchedBy(func(p *ydb.UserProfile) bool {
		return p.Username != nil && *p.Username == "kino_fan" && p.DateOfBirth == nil
	})).Return(nil)

	username, clear := "kino_fan", ""
	user, err := svc.UpdateProfile(ctx, caller, &models.UpdateProfileRequest{Username: &username, DateOfBirth: &clear})

	require.NoError(t, err)
	assert.Equal(t, "kino_fan", user.Username)
	assert.Nil(t, user.DateOfBirth)
}

func TestService_UpdateProfile_InvalidFields(t *testing.T) {
	badUsername := "a b"
	badDate := "17.05.1990"
	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	tests := []struct {
		name string
		req  models.UpdateProfileRequest
	}{
		{"username", models.UpdateProfileRequest{Username: &badUsername}},
		{"date format", models.UpdateProfileRequest{DateOfBirth: &badDate}},
		{"date in future", models.UpdateProfileRequest{DateOfBirth: &future}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := setupAuthService(t, nil)
			ctx := context.Background()
			deps.db.On("GetUserProfile", ctx, "u1").Return(&ydb.UserProfile{UserID: "u1"}, nil)

			_, err := svc.UpdateProfile(ctx, &session.Caller{UserID: "u1"}, &tt.req)
			assert.True(t, app_errors.Is(err, app_errors.KindInvalidArgument), "got %v", err)
		})
	}
}

func TestService_UploadAvatar(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()
	caller := &session.Caller{UserID: "u1"}
	body := bytes.NewReader([]byte("png-bytes"))

	deps.db.On("GetUserProfile", ctx, "u1").Return(&ydb.UserProfile{UserID: "u1"}, nil)
	deps.storage.On("PublicKey", mock.MatchedBy(func(name string) bool {
		return len(name) > len("avatars/u1/") && name[:len("avatars/u1/")] == "avatars/u1/"
	})).Return("public/avatars/u1/x.png")
	deps.storage.On("PutObject", ctx, "public/avatars/u1/x.png", "image/png", body, int64(9)).
		Return("https://media.example.com/public/avatars/u1/x.png", nil)
	deps.db.On("UpsertUserProfile", ctx, mock.MatchedBy(func(p *ydb.UserProfile) bool {
		return p.AvatarURL != nil && *p.AvatarURL == "https://media.example.com/public/avatars/u1/x.png"
	})).Return(nil)

	resp, err := svc.UploadAvatar(ctx, caller, "image/png", body, 9)

	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/public/avatars/u1/x.png", resp.AvatarURL)
}

func TestService_UploadAvatar_TooLarge(t *testing.T) {
	svc, _ := setupAuthService(t, nil)

	_, err := svc.UploadAvatar(context.Background(), &session.Caller{UserID: "u1"}, "image/png", bytes.NewReader(nil), 2<<20)
	assert.True(t, app_errors.Is(err, app_errors.KindInvalidArgument))
}

func TestService_ListUsers_RequiresAdmin(t *testing.T) {
	svc, _ := setupAuthService(t, nil)

	_, err := svc.ListUsers(context.Background(), &session.Caller{UserID: "u1", Role: rbac.RoleSubscriber}, 10, 0)
	assert.ErrorIs(t, err, app_errors.ErrAdminRequired)
}

func TestService_ListUsers(t *testing.T) {
	svc, deps := setupAuthService(t, nil)
	ctx := context.Background()

	deps.db.On("ListUserProfiles", ctx, 50, 0).Return([]*ydb.UserProfile{
		{UserID: "u1", Email: "u1@example.com"},
		{UserID: "u2", Email: "u2@example.com", Role: "admin", IsAdmin: true},
	}, int64(2), nil)

	resp, err := svc.ListUsers(ctx, &session.Caller{UserID: "a1", Role: rbac.RoleAdmin, Admin: true}, 0, -1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "user", resp.Users[0].Role)
	assert.True(t, resp.Users[1].IsAdmin)
}

func TestProfileToUser(t *testing.T) {
	name := "Данила"
	user := ProfileToUser(&ydb.UserProfile{UserID: "u1", DisplayName: &name})
	assert.Equal(t, "Данила", user.DisplayName)
	assert.Equal(t, string(rbac.RoleUser), user.Role)
}

var _ email.Notifier = (*emailmocks.Notifier)(nil)
