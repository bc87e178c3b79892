package models

import "time"

// User профиль пользователя в таблице users
// @Description	User profile
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Username    string     `json:"username,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" swaggertype:"string" format:"date"`
	Role        string     `json:"role" example:"user"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Auth Request/Response Models

// RegisterRequest represents a registration request
// @Description	Registration request with user details
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// RegisterResponse represents a registration response
// @Description	Registration response with user ID and tokens
type RegisterResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// LoginRequest represents a login request
// @Description	Login request with email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
// @Description	Login response with tokens and profile
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// RefreshTokenRequest represents a refresh token request
// @Description	Refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse represents a refresh token response
// @Description	Refresh token response with new tokens
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	Admin        bool   `json:"admin"`
}

// UpdateProfileRequest represents a profile update request.
// Пустой указатель означает "не менять".
// @Description	Profile update request
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Username    *string `json:"username,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	// DateOfBirth в формате 2006-01-02, пустая строка очищает поле
	DateOfBirth *string `json:"date_of_birth,omitempty" example:"1990-05-17"`
}

// UploadAvatarResponse represents avatar upload result
// @Description	Avatar upload result
type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// ListUsersResponse список профилей для админки
// @Description	Users list
type ListUsersResponse struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
}
