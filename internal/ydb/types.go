package ydb

import (
	"time"
)

// Account учетная запись для входа
type Account struct {
	AccountID    string    `db:"account_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	DisplayName  *string   `db:"display_name"`
	AdminClaim   bool      `db:"admin_claim"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserProfile профиль пользователя. Role и IsAdmin меняются только через MergeUserRole.
type UserProfile struct {
	UserID      string     `db:"user_id"`
	Email       string     `db:"email"`
	DisplayName *string    `db:"display_name"`
	Username    *string    `db:"username"`
	Bio         *string    `db:"bio"`
	AvatarURL   *string    `db:"avatar_url"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	Role        string     `db:"role"`
	IsAdmin     bool       `db:"is_admin"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Film строка таблицы films. Списки и сезоны хранятся как Json.
type Film struct {
	FilmID        string    `db:"film_id"`
	Type          string    `db:"type"`
	Title         string    `db:"title"`
	TitleSearch   string    `db:"title_search"`
	OriginalTitle *string   `db:"original_title"`
	Year          int32     `db:"year"`
	PosterURL     *string   `db:"poster_url"`
	Description   string    `db:"description"`
	Director      *string   `db:"director"`
	ActorsJSON    string    `db:"actors"`
	GenresJSON    string    `db:"genres"`
	Country       *string   `db:"country"`
	DubbingStudio *string   `db:"dubbing_studio"`
	Rating        *float64  `db:"rating"`
	Duration      *string   `db:"duration"`
	VideoURL      *string   `db:"video_url"`
	SeasonsJSON   *string   `db:"seasons"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// FilmFilter параметры выборки каталога
type FilmFilter struct {
	Type  string
	Query string
	Limit int
}

// WatchData состояние просмотра, ключ (user_id, film_id)
type WatchData struct {
	UserID        string     `db:"user_id"`
	FilmID        string     `db:"film_id"`
	IsBookmarked  bool       `db:"is_bookmarked"`
	Progress      int64      `db:"progress"`
	TotalDuration int64      `db:"total_duration"`
	Type          string     `db:"type"`
	LastWatchedAt *time.Time `db:"last_watched_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// WatchDataFilter выборка состояний пользователя
type WatchDataFilter struct {
	BookmarkedOnly bool
	StartedOnly    bool
	Limit          int
}

// MediaUpload multipart загрузка видеофайла
type MediaUpload struct {
	MediaID       string     `db:"media_id"`
	ObjectKey     string     `db:"object_key"`
	S3UploadID    string     `db:"s3_upload_id"`
	FileName      string     `db:"file_name"`
	ContentType   string     `db:"content_type"`
	FileSizeBytes int64      `db:"file_size_bytes"`
	TotalParts    *int32     `db:"total_parts"`
	Status        string     `db:"status"`
	PublicURL     *string    `db:"public_url"`
	CreatedBy     string     `db:"created_by"`
	CreatedAt     time.Time  `db:"created_at"`
	CompletedAt   *time.Time `db:"completed_at"`
}

// AuditLog запись аудита
type AuditLog struct {
	ID           string    `db:"id"`
	Timestamp    time.Time `db:"timestamp"`
	UserID       *string   `db:"user_id"`
	ActionType   string    `db:"action_type"`
	ActionResult string    `db:"action_result"`
	TargetID     *string   `db:"target_id"`
	IPAddress    *string   `db:"ip_address"`
	UserAgent    *string   `db:"user_agent"`
	DetailsJSON  string    `db:"details"`
}

// AuditLogFilter фильтр выборки аудита
type AuditLogFilter struct {
	UserID     string
	ActionType string
	Result     string
	From       *time.Time
	To         *time.Time
	Limit      int
}
