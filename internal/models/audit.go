package models

import (
	"encoding/json"
	"time"
)

// AuditLog представляет запись аудита в системе
// @Description	Audit log entry for admin actions
type AuditLog struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	UserID       string          `json:"user_id"`
	ActionType   string          `json:"action_type"`
	ActionResult string          `json:"action_result"`
	TargetID     string          `json:"target_id,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	Details      json.RawMessage `json:"details"`
}

// AuditActionType содержит константы для типов действий
type AuditActionType string

const (
	AuditRegisterSuccess AuditActionType = "register_success"

	// Роли
	AuditRoleChanged  AuditActionType = "role_changed"
	AuditAdminGranted AuditActionType = "admin_granted"

	// Каталог
	AuditFilmCreated    AuditActionType = "film_created"
	AuditFilmUpdated    AuditActionType = "film_updated"
	AuditPosterUploaded AuditActionType = "poster_uploaded"
	AuditMediaUploaded  AuditActionType = "media_uploaded"
)

// AuditActionResult содержит константы для результатов действий
type AuditActionResult string

const (
	AuditResultSuccess AuditActionResult = "success"
	AuditResultFailure AuditActionResult = "failure"
)

// GetAuditLogsRequest фильтры списка аудита
// @Description	Request filters for audit logs listing
type GetAuditLogsRequest struct {
	UserID     string `query:"user_id"`
	ActionType string `query:"action_type"`
	Result     string `query:"result"`
	From       string `query:"from"`
	To         string `query:"to"`
	Limit      int    `query:"limit"`
}

// GetAuditLogsResponse response for audit logs listing
// @Description	Audit logs list
type GetAuditLogsResponse struct {
	Logs  []*AuditLog `json:"logs"`
	Limit int         `json:"limit"`
}
