package http

import (
	"net/http"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
)

// Register handles user registration
// @Summary		Register a new user
// @Description	Creates an account and a profile with role user
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.RegisterRequest	true	"Registration request"
// @Success	201	{object}	models.RegisterResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	409	{object}	ErrorResponse
// @Failure	500	{object}	ErrorResponse
// @Router		/auth/register [post]
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Auth.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// Login handles user login
// @Summary		Login
// @Description	Exchanges email and password for a token pair carrying the admin claim
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.LoginRequest	true	"Login request"
// @Success	200	{object}	models.LoginResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/auth/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Auth.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// RefreshToken handles token refresh
// @Summary		Refresh tokens
// @Description	Re-issues the token pair; the admin claim is re-read from the account
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.RefreshTokenRequest	true	"Refresh token request"
// @Success	200	{object}	models.RefreshTokenResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/auth/refresh [post]
func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RefreshToken == "" {
		writeError(w, r, app_errors.InvalidArgument("refresh_token is required"))
		return
	}

	resp, err := s.Auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetProfile handles getting user profile
// @Summary		Get profile
// @Tags		auth
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	models.User
// @Failure	401	{object}	ErrorResponse
// @Router		/auth/profile [get]
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionUserViewProfile)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.Auth.GetProfile(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// UpdateProfile handles profile update
// @Summary		Update profile
// @Description	Absent fields are left unchanged; an empty date_of_birth clears it
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.UpdateProfileRequest	true	"Profile fields"
// @Security	BearerAuth
// @Success	200	{object}	models.User
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/auth/profile [put]
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionUserEditProfile)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.Auth.UpdateProfile(r.Context(), caller, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// UploadAvatar handles avatar upload
// @Summary		Upload avatar
// @Description	Raw image body (jpeg, png, gif, webp)
// @Tags		auth
// @Accept		image/png,image/jpeg,image/gif,image/webp
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	models.UploadAvatarResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/auth/profile/avatar [put]
func (s *Server) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionUserEditProfile)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, size, err := readUpload(r, s.AvatarMaxBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Auth.UploadAvatar(r.Context(), caller, r.Header.Get("Content-Type"), body, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}
