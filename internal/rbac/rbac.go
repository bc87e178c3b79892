package rbac

// Permission представляет разрешение в системе
type Permission string

const (
	// Каталог
	PermissionCatalogView   Permission = "catalog:view"
	PermissionCatalogManage Permission = "catalog:manage"

	// Просмотр
	PermissionWatchTrack    Permission = "watch:track"
	PermissionWatchBookmark Permission = "watch:bookmark"

	// Пользовательские разрешения
	PermissionUserViewProfile Permission = "user:view_profile"
	PermissionUserEditProfile Permission = "user:edit_profile"

	// Административные разрешения
	PermissionAdminManageUsers Permission = "admin:manage_users"
	PermissionAdminManageRoles Permission = "admin:manage_roles"
	PermissionAdminViewLogs    Permission = "admin:view_logs"
)

// Role представляет роль в системе
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSubscriber Role = "subscriber"
	RoleUser       Role = "user"
)

// RBAC управляет ролями и разрешениями
type RBAC struct {
	rolePermissions map[Role][]Permission
}

// NewRBAC создает новый RBAC менеджер
func NewRBAC() *RBAC {
	rbac := &RBAC{
		rolePermissions: make(map[Role][]Permission),
	}

	rbac.initializeRolePermissions()

	return rbac
}

func (r *RBAC) initializeRolePermissions() {
	viewer := []Permission{
		PermissionCatalogView,
		PermissionWatchTrack,
		PermissionWatchBookmark,
		PermissionUserViewProfile,
		PermissionUserEditProfile,
	}

	r.rolePermissions[RoleUser] = append([]Permission(nil), viewer...)

	// Подписчик пока отличается от пользователя только меткой роли
	r.rolePermissions[RoleSubscriber] = append([]Permission(nil), viewer...)

	r.rolePermissions[RoleAdmin] = append(append([]Permission(nil), viewer...),
		PermissionCatalogManage,
		PermissionAdminManageUsers,
		PermissionAdminManageRoles,
		PermissionAdminViewLogs,
	)
}

// CheckPermissionWithRole проверяет разрешение для указанной роли
func (r *RBAC) CheckPermissionWithRole(role Role, permission Permission) bool {
	return r.hasPermission(role, permission)
}

func (r *RBAC) hasPermission(role Role, permission Permission) bool {
	permissions, exists := r.rolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// GetRolePermissions возвращает все разрешения для роли
func (r *RBAC) GetRolePermissions(role Role) []Permission {
	permissions, exists := r.rolePermissions[role]
	if !exists {
		return []Permission{}
	}

	result := make([]Permission, len(permissions))
	copy(result, permissions)
	return result
}

// GetAllRoles возвращает все доступные роли
func (r *RBAC) GetAllRoles() []Role {
	return []Role{RoleAdmin, RoleSubscriber, RoleUser}
}

// RoleHierarchy определяет иерархию ролей
var RoleHierarchy = map[Role]int{
	RoleUser:       1,
	RoleSubscriber: 2,
	RoleAdmin:      3,
}

// CanManageRole проверяет, может ли пользователь с ролью userRole назначать роль targetRole.
// Назначать роли может только администратор.
func (r *RBAC) CanManageRole(userRole Role, targetRole Role) bool {
	if !r.IsValidRole(userRole) || !r.IsValidRole(targetRole) {
		return false
	}
	return r.hasPermission(userRole, PermissionAdminManageRoles)
}

// IsValidRole проверяет, является ли роль валидной
func (r *RBAC) IsValidRole(role Role) bool {
	_, exists := r.rolePermissions[role]
	return exists
}

// RoleFor возвращает роль для сессии: admin-claim сильнее сохраненной роли
func RoleFor(storedRole string, adminClaim bool) Role {
	if adminClaim {
		return RoleAdmin
	}
	switch Role(storedRole) {
	case RoleSubscriber:
		return RoleSubscriber
	default:
		return RoleUser
	}
}
