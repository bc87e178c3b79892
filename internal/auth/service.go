package auth

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/cache"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	"github.com/lumiforge/kinoteka-backend/internal/email"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	"github.com/lumiforge/kinoteka-backend/internal/storage"
	"github.com/lumiforge/kinoteka-backend/internal/validation"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

const (
	minPasswordLength = 8
	// bcrypt игнорирует байты после 72-го
	maxPasswordLength = 72

	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute

	maxDisplayNameLength = 100
	maxBioLength         = 1000
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

// Service реализует бизнес-логику аутентификации и профилей
type Service struct {
	db         ydb.Database
	jwtManager jwt.TokenManager
	rbac       *rbac.RBAC
	email      email.Notifier
	storage    storage.StorageProvider
	cache      cache.Cache
	audit      *audit.Service
	cfg        *config.Config
}

// NewService создает новый auth сервис
func NewService(db ydb.Database, jwtManager jwt.TokenManager, rbacManager *rbac.RBAC, emailClient email.Notifier, storageClient storage.StorageProvider, c cache.Cache, auditService *audit.Service, cfg *config.Config) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		db:         db,
		jwtManager: jwtManager,
		rbac:       rbacManager,
		email:      emailClient,
		storage:    storageClient,
		cache:      c,
		audit:      auditService,
		cfg:        cfg,
	}
}

// Register создает учетную запись и профиль с ролью user
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(emailAddr, "email"); err != nil {
		return nil, app_errors.InvalidArgument("%s", err.Error())
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	displayName, err := validation.SanitizeText(req.DisplayName, "display_name", validation.PlainText(maxDisplayNameLength))
	if err != nil {
		return nil, app_errors.InvalidArgument("%s", err.Error())
	}

	// Проверка, что email не занят
	existing, err := s.db.GetAccountByEmail(ctx, emailAddr)
	if err == nil && existing != nil {
		return nil, app_errors.ErrEmailAlreadyExists
	}
	if err != nil && !app_errors.Is(err, app_errors.KindNotFound) {
		return nil, app_errors.Internal(err, "failed to check email")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to hash password")
	}

	account := &ydb.Account{
		AccountID:    uuid.New().String(),
		Email:        emailAddr,
		PasswordHash: string(passwordHash),
		DisplayName:  optional(displayName),
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		return nil, app_errors.Internal(err, "failed to create account")
	}

	if err := s.initProfile(ctx, account); err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.jwtManager.GenerateTokenPair(account.AccountID, emailAddr, string(rbac.RoleUser), false)
	if err != nil {
		return nil, err
	}

	// Письмо не обязательно, ошибка не прерывает регистрацию
	if s.email != nil && s.email.IsConfigured() {
		if _, err := s.email.SendWelcomeEmail(ctx, emailAddr, displayName); err != nil {
			logger.FromContext(ctx).Warn("Failed to send welcome email", "user_id", account.AccountID, "error", err)
		}
	}

	if s.audit != nil {
		_ = s.audit.LogAction(ctx, audit.Record{
			UserID:     account.AccountID,
			ActionType: models.AuditRegisterSuccess,
			TargetID:   account.AccountID,
		})
	}

	return &models.RegisterResponse{
		UserID:       account.AccountID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.GetTokenExpiry(jwt.TokenTypeAccess)).Unix(),
	}, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return app_errors.InvalidArgument("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return app_errors.InvalidArgument("password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

// initProfile создает профиль с ролью user
func (s *Service) initProfile(ctx context.Context, account *ydb.Account) error {
	profile := &ydb.UserProfile{
		UserID:      account.AccountID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
	}
	if err := s.db.UpsertUserProfile(ctx, profile); err != nil {
		return app_errors.Internal(err, "failed to create profile")
	}
	if err := s.db.MergeUserRole(ctx, account.AccountID, string(rbac.RoleUser), false); err != nil {
		return app_errors.Internal(err, "failed to set default role")
	}
	return nil
}

// Login проверяет пароль и выдает токены с текущим admin-claim
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if emailAddr == "" || req.Password == "" {
		return nil, app_errors.InvalidArgument("email and password are required")
	}

	attemptsKey := cache.LoginAttemptsKey(emailAddr)
	var attempts int64
	if found, err := s.cache.GetJSON(ctx, attemptsKey, &attempts); err != nil {
		logger.FromContext(ctx).Warn("Failed to read login attempts", "error", err)
	} else if found && attempts >= maxLoginAttempts {
		return nil, app_errors.PermissionDenied("too many login attempts, try again later")
	}

	account, err := s.db.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			s.recordFailedLogin(ctx, attemptsKey)
			return nil, app_errors.ErrInvalidCredentials
		}
		return nil, app_errors.Internal(err, "failed to get account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, attemptsKey)
		return nil, app_errors.ErrInvalidCredentials
	}
	if err := s.cache.Delete(ctx, attemptsKey); err != nil {
		logger.FromContext(ctx).Warn("Failed to reset login attempts", "error", err)
	}

	user, err := s.loadProfile(ctx, account)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.jwtManager.GenerateTokenPair(account.AccountID, account.Email, user.Role, account.AdminClaim)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.GetTokenExpiry(jwt.TokenTypeAccess)).Unix(),
		User:         user,
	}, nil
}

func (s *Service) recordFailedLogin(ctx context.Context, key string) {
	if _, err := s.cache.Incr(ctx, key, loginAttemptWindow); err != nil {
		logger.FromContext(ctx).Warn("Failed to count login attempt", "error", err)
	}
}

// RefreshToken перевыпускает токены, заново читая admin-claim учетной записи.
// Так новая роль попадает в сессию без повторного входа.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.RefreshTokenResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	account, err := s.db.GetAccountByID(ctx, claims.UserID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, app_errors.ErrInvalidRefreshToken
		}
		return nil, app_errors.Internal(err, "failed to get account")
	}

	role := string(rbac.RoleUser)
	profile, err := s.db.GetUserProfile(ctx, account.AccountID)
	switch {
	case err == nil && profile.Role != "":
		role = profile.Role
	case err != nil && !app_errors.Is(err, app_errors.KindNotFound):
		return nil, app_errors.Internal(err, "failed to get profile")
	}

	accessToken, newRefreshToken, err := s.jwtManager.GenerateTokenPair(account.AccountID, account.Email, role, account.AdminClaim)
	if err != nil {
		return nil, err
	}

	return &models.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.GetTokenExpiry(jwt.TokenTypeAccess)).Unix(),
		Admin:        account.AdminClaim,
	}, nil
}

// GetProfile возвращает профиль вызывающего, создавая его при первом обращении
func (s *Service) GetProfile(ctx context.Context, caller *session.Caller) (*models.User, error) {
	if !caller.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}

	account, err := s.db.GetAccountByID(ctx, caller.UserID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, app_errors.Internal(err, "failed to get account")
	}
	return s.loadProfile(ctx, account)
}

// loadProfile читает профиль; отсутствующий профиль инициализируется ролью user
func (s *Service) loadProfile(ctx context.Context, account *ydb.Account) (*models.User, error) {
	profile, err := s.db.GetUserProfile(ctx, account.AccountID)
	if err == nil {
		return ProfileToUser(profile), nil
	}
	if !app_errors.Is(err, app_errors.KindNotFound) {
		return nil, app_errors.Internal(err, "failed to get profile")
	}

	logger.FromContext(ctx).Info("Initializing missing profile", "user_id", account.AccountID)
	if err := s.initProfile(ctx, account); err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.User{
		ID:          account.AccountID,
		Email:       account.Email,
		DisplayName: deref(account.DisplayName),
		Role:        string(rbac.RoleUser),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateProfile меняет редактируемые поля профиля
func (s *Service) UpdateProfile(ctx context.Context, caller *session.Caller, req *models.UpdateProfileRequest) (*models.User, error) {
	if !caller.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}

	profile, err := s.db.GetUserProfile(ctx, caller.UserID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, app_errors.Internal(err, "failed to get profile")
	}

	if req.DisplayName != nil {
		v, err := validation.SanitizeText(*req.DisplayName, "display_name", validation.PlainText(maxDisplayNameLength))
		if err != nil {
			return nil, app_errors.InvalidArgument("%s", err.Error())
		}
		profile.DisplayName = optional(v)
	}
	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		if v != "" && !usernameRe.MatchString(v) {
			return nil, app_errors.InvalidArgument("username must be 3-30 latin letters, digits, '_' or '.'")
		}
		profile.Username = optional(v)
	}
	if req.Bio != nil {
		v, err := validation.SanitizeText(*req.Bio, "bio", validation.PlainText(maxBioLength))
		if err != nil {
			return nil, app_errors.InvalidArgument("%s", err.Error())
		}
		profile.Bio = optional(v)
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		profile.DateOfBirth = dob
	}

	if err := s.db.UpsertUserProfile(ctx, profile); err != nil {
		return nil, app_errors.Internal(err, "failed to update profile")
	}
	return ProfileToUser(profile), nil
}

func parseDateOfBirth(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	dob, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, app_errors.InvalidArgument("date_of_birth must be in YYYY-MM-DD format")
	}
	if dob.After(time.Now()) || dob.Year() < 1900 {
		return nil, app_errors.InvalidArgument("date_of_birth is out of range")
	}
	return &dob, nil
}

// UploadAvatar загружает изображение в хранилище и сохраняет ссылку в профиле
func (s *Service) UploadAvatar(ctx context.Context, caller *session.Caller, contentType string, body io.Reader, size int64) (*models.UploadAvatarResponse, error) {
	if !caller.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if err := validation.ValidateImageUpload(contentType, size, s.cfg.AvatarMaxBytes, "avatar"); err != nil {
		return nil, app_errors.InvalidArgument("%s", err.Error())
	}

	profile, err := s.db.GetUserProfile(ctx, caller.UserID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, app_errors.Internal(err, "failed to get profile")
	}

	ext, _ := validation.ImageExtension(contentType)
	key := s.storage.PublicKey(fmt.Sprintf("avatars/%s/%s%s", caller.UserID, uuid.New().String(), ext))
	url, err := s.storage.PutObject(ctx, key, validation.NormalizeContentType(contentType), body, size)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to upload avatar")
	}

	profile.AvatarURL = &url
	if err := s.db.UpsertUserProfile(ctx, profile); err != nil {
		return nil, app_errors.Internal(err, "failed to save avatar")
	}

	return &models.UploadAvatarResponse{AvatarURL: url}, nil
}

// ListUsers страница профилей для администратора
func (s *Service) ListUsers(ctx context.Context, caller *session.Caller, limit, offset int) (*models.ListUsersResponse, error) {
	if err := s.requireManageUsers(caller); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	profiles, total, err := s.db.ListUserProfiles(ctx, limit, offset)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to list users")
	}

	users := make([]*models.User, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, ProfileToUser(p))
	}
	return &models.ListUsersResponse{Users: users, Total: total}, nil
}

// GetUser профиль любого пользователя для администратора
func (s *Service) GetUser(ctx context.Context, caller *session.Caller, userID string) (*models.User, error) {
	if err := s.requireManageUsers(caller); err != nil {
		return nil, err
	}
	profile, err := s.db.GetUserProfile(ctx, userID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, err
		}
		return nil, app_errors.Internal(err, "failed to get user")
	}
	return ProfileToUser(profile), nil
}

func (s *Service) requireManageUsers(caller *session.Caller) error {
	if !caller.IsAuthenticated() {
		return app_errors.ErrUnauthenticated
	}
	if !caller.Can(s.rbac, rbac.PermissionAdminManageUsers) {
		return app_errors.ErrAdminRequired
	}
	return nil
}

// ProfileToUser переводит строку users в API модель
func ProfileToUser(p *ydb.UserProfile) *models.User {
	role := p.Role
	if role == "" {
		role = string(rbac.RoleUser)
	}
	return &models.User{
		ID:          p.UserID,
		Email:       p.Email,
		DisplayName: deref(p.DisplayName),
		Username:    deref(p.Username),
		Bio:         deref(p.Bio),
		AvatarURL:   deref(p.AvatarURL),
		DateOfBirth: p.DateOfBirth,
		Role:        role,
		IsAdmin:     p.IsAdmin,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
