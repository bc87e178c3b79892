package models

// UpdateRoleRequest входные данные callable updateUserRole
// @Description	Role change request
type UpdateRoleRequest struct {
	TargetUID string `json:"targetUid" example:"8f14e45f-ceea-467f-a0e6-3c1f4b7e0d9a"`
	NewRole   string `json:"newRole" example:"subscriber" enums:"admin,subscriber,user"`
}

// AddAdminRequest входные данные callable addAdminRole
// @Description	Grant admin request
type AddAdminRequest struct {
	TargetEmail string `json:"targetEmail" example:"editor@example.com"`
}

// RoleChangeResponse результат callable функций управления ролями
// @Description	Role change confirmation
type RoleChangeResponse struct {
	Message string `json:"message"`
}
