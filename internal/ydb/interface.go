package ydb

import (
	"context"
	"time"
)

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Учетные записи
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, accountID string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	SetAdminClaim(ctx context.Context, accountID string, admin bool) error

	// Профили пользователей
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpsertUserProfile(ctx context.Context, profile *UserProfile) error
	// MergeUserRole пишет только role, is_admin и updated_at, остальные поля профиля не трогает
	MergeUserRole(ctx context.Context, userID, role string, isAdmin bool) error
	ListUserProfiles(ctx context.Context, limit, offset int) ([]*UserProfile, int64, error)

	// Каталог
	CreateFilm(ctx context.Context, film *Film) error
	GetFilm(ctx context.Context, filmID string) (*Film, error)
	UpdateFilm(ctx context.Context, film *Film) error
	ListFilms(ctx context.Context, filter FilmFilter) ([]*Film, error)

	// Состояние просмотра
	// GetWatchData возвращает nil, nil если записи нет
	GetWatchData(ctx context.Context, userID, filmID string) (*WatchData, error)
	UpsertWatchProgress(ctx context.Context, data *WatchData) error
	UpsertBookmark(ctx context.Context, userID, filmID, filmType string, at time.Time) error
	// ClearBookmark возвращает false, если записи не было; строка не создается
	ClearBookmark(ctx context.Context, userID, filmID string, at time.Time) (bool, error)
	ListWatchData(ctx context.Context, userID string, filter WatchDataFilter) ([]*WatchData, error)

	// Загрузки медиа
	CreateMediaUpload(ctx context.Context, upload *MediaUpload) error
	GetMediaUpload(ctx context.Context, mediaID string) (*MediaUpload, error)
	UpdateMediaUpload(ctx context.Context, upload *MediaUpload) error

	// Аудит
	CreateAuditLog(ctx context.Context, log *AuditLog) error
	ListAuditLogs(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error)

	Close() error
}
