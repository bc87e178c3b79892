// Package roles реализует административные функции смены ролей.
// Каждый вызов проходит одни и те же шаги: проверка вызывающего, проверка его
// флага администратора в профиле, проверка входных данных, поиск целевой
// учетной записи, запись admin-claim и слияние роли в профиль.
package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/email"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/metrics"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	"github.com/lumiforge/kinoteka-backend/internal/validation"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

const (
	FunctionUpdateUserRole = "updateUserRole"
	FunctionAddAdminRole   = "addAdminRole"
)

var (
	errNotAdmin       = app_errors.PermissionDenied("У вас нет прав для выполнения этого действия.")
	errUnauthorized   = app_errors.Unauthenticated("Только авторизованные пользователи могут вызывать эту функцию.")
	errBadRoleRequest = app_errors.InvalidArgument("Требуется targetUid и newRole (admin, subscriber или user).")
	errBadEmail       = app_errors.InvalidArgument("Требуется действительный email целевого пользователя.")
)

// Service управляет ролями пользователей
type Service struct {
	db    ydb.Database
	rbac  *rbac.RBAC
	email email.Notifier
	audit *audit.Service
}

// NewService создает сервис ролей; email и audit могут быть nil
func NewService(db ydb.Database, rbacManager *rbac.RBAC, notifier email.Notifier, auditService *audit.Service) *Service {
	return &Service{db: db, rbac: rbacManager, email: notifier, audit: auditService}
}

// UpdateUserRole назначает пользователю одну из ролей admin, subscriber, user.
// Admin-claim выставляется только для роли admin. Повторный вызов с той же ролью ничего не меняет.
func (s *Service) UpdateUserRole(ctx context.Context, caller *session.Caller, req *models.UpdateRoleRequest) (resp *models.RoleChangeResponse, err error) {
	defer func() { s.observe(ctx, FunctionUpdateUserRole, caller, err) }()

	if err := s.Authorize(ctx, caller); err != nil {
		return nil, err
	}

	targetUID := ""
	role := rbac.Role("")
	if req != nil {
		targetUID = strings.TrimSpace(req.TargetUID)
		role = rbac.Role(strings.TrimSpace(req.NewRole))
	}
	if targetUID == "" || !s.rbac.IsValidRole(role) {
		return nil, errBadRoleRequest
	}

	account, err := s.db.GetAccountByID(ctx, targetUID)
	if err != nil {
		return nil, lookupError(err, "Пользователь не найден.")
	}

	if err := s.apply(ctx, account, role); err != nil {
		return nil, err
	}

	s.record(ctx, caller, models.AuditRoleChanged, account.AccountID, role)
	s.notify(ctx, account.Email, role)

	return &models.RoleChangeResponse{
		Message: fmt.Sprintf("Роль пользователя %s изменена на %s.", account.Email, role),
	}, nil
}

// AddAdminRole назначает администратором пользователя с указанным email
func (s *Service) AddAdminRole(ctx context.Context, caller *session.Caller, req *models.AddAdminRequest) (resp *models.RoleChangeResponse, err error) {
	defer func() { s.observe(ctx, FunctionAddAdminRole, caller, err) }()

	if err := s.Authorize(ctx, caller); err != nil {
		return nil, err
	}

	targetEmail := ""
	if req != nil {
		targetEmail = validation.NormalizeEmail(req.TargetEmail)
	}
	if !validation.IsValidEmail(targetEmail) {
		return nil, errBadEmail
	}

	account, err := s.db.GetAccountByEmail(ctx, targetEmail)
	if err != nil {
		return nil, lookupError(err, "Пользователь с таким email не найден.")
	}

	if err := s.apply(ctx, account, rbac.RoleAdmin); err != nil {
		return nil, err
	}

	s.record(ctx, caller, models.AuditAdminGranted, account.AccountID, rbac.RoleAdmin)
	s.notify(ctx, account.Email, rbac.RoleAdmin)

	return &models.RoleChangeResponse{
		Message: fmt.Sprintf("Пользователь %s успешно назначен администратором.", account.Email),
	}, nil
}

// Authorize: вызывающий аутентифицирован и в его профиле стоит is_admin.
// Claim в токене не используется, решает только сохраненный профиль.
func (s *Service) Authorize(ctx context.Context, caller *session.Caller) error {
	if !caller.IsAuthenticated() {
		return errUnauthorized
	}

	profile, err := s.db.GetUserProfile(ctx, caller.UserID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return errNotAdmin
		}
		return app_errors.Internal(err, "Произошла ошибка при проверке прав.")
	}
	if !profile.IsAdmin {
		return errNotAdmin
	}
	return nil
}

// apply выставляет claim и сливает роль с зеркальным флагом в профиль
func (s *Service) apply(ctx context.Context, account *ydb.Account, role rbac.Role) error {
	isAdmin := role == rbac.RoleAdmin

	if err := s.db.SetAdminClaim(ctx, account.AccountID, isAdmin); err != nil {
		return app_errors.Internal(err, "Произошла ошибка при изменении роли.")
	}
	if err := s.db.MergeUserRole(ctx, account.AccountID, string(role), isAdmin); err != nil {
		return app_errors.Internal(err, "Произошла ошибка при изменении роли.")
	}

	logger.FromContext(ctx).Info("User role changed", "target_id", account.AccountID, "role", role)
	return nil
}

func lookupError(err error, notFoundMessage string) error {
	if app_errors.Is(err, app_errors.KindNotFound) {
		return app_errors.NotFound("%s", notFoundMessage)
	}
	return app_errors.Internal(err, "Произошла ошибка при поиске пользователя.")
}

func (s *Service) record(ctx context.Context, caller *session.Caller, action models.AuditActionType, targetID string, role rbac.Role) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogAction(ctx, audit.Record{
		UserID:     caller.UserID,
		ActionType: action,
		TargetID:   targetID,
		Details:    map[string]any{"role": string(role)},
	})
}

// notify письмо о смене роли, ошибка только логируется
func (s *Service) notify(ctx context.Context, to string, role rbac.Role) {
	if s.email == nil || !s.email.IsConfigured() {
		return
	}
	if _, err := s.email.SendRoleChangedEmail(ctx, to, string(role)); err != nil {
		logger.FromContext(ctx).Warn("Failed to send role change email", "error", err)
	}
}

func (s *Service) observe(ctx context.Context, function string, caller *session.Caller, err error) {
	result := "ok"
	if err != nil {
		result = string(app_errors.KindOf(err))
		log := logger.FromContext(ctx)
		if caller != nil {
			log = log.With("caller_id", caller.UserID)
		}
		if result == string(app_errors.KindInternal) {
			log.Error("Role change failed", "function", function, "error", err)
		} else {
			log.Warn("Role change rejected", "function", function, "error", err)
		}
	}
	metrics.RoleChanges.WithLabelValues(function, result).Inc()
}
