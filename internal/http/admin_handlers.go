package http

import (
	"net/http"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// ListUsers список пользователей для админки
// @Summary		List users
// @Tags		admin
// @Produce	json
// @Param		limit	query		int	false	"Page size"	default(50)
// @Param		offset	query		int	false	"Offset"	default(0)
// @Security	BearerAuth
// @Success	200	{object}	models.ListUsersResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/admin/users [get]
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Auth.ListUsers(r.Context(), session.FromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetUser профиль пользователя
// @Summary		Get user
// @Tags		admin
// @Produce	json
// @Param		id	path		string	true	"User ID"
// @Security	BearerAuth
// @Success	200	{object}	models.User
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/admin/users/{id} [get]
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Auth.GetUser(r.Context(), session.FromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, app_errors.InvalidArgument("%s must be RFC3339", name)
	}
	return &t, nil
}

// GetAuditLogs журнал действий администраторов
// @Summary		List audit logs
// @Tags		admin
// @Produce	json
// @Param		user_id		query		string	false	"Actor"
// @Param		action_type	query		string	false	"Action"
// @Param		result		query		string	false	"success or failure"
// @Param		from		query		string	false	"RFC3339"
// @Param		to			query		string	false	"RFC3339"
// @Param		limit		query		int		false	"Max entries"	default(100)
// @Security	BearerAuth
// @Success	200	{object}	models.GetAuditLogsResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/admin/audit-logs [get]
func (s *Server) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireCaller(r, rbac.PermissionAdminViewLogs); err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	req := models.GetAuditLogsRequest{
		UserID:     q.Get("user_id"),
		ActionType: q.Get("action_type"),
		Result:     q.Get("result"),
	}
	limit, err := queryInt(r, "limit", defaultAuditLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	req.Limit = limit

	from, err := parseTimeParam(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}

	logs, err := s.Audit.ListAuditLogs(r.Context(), audit.Filter{
		UserID:     req.UserID,
		ActionType: req.ActionType,
		Result:     req.Result,
		From:       from,
		To:         to,
		Limit:      req.Limit,
	})
	if err != nil {
		writeError(w, r, app_errors.Internal(err, "failed to list audit logs"))
		return
	}
	writeJSON(w, r, http.StatusOK, models.GetAuditLogsResponse{Logs: logs, Limit: req.Limit})
}

// InitiateMediaUpload начало multipart загрузки видео
// @Summary		Initiate video upload
// @Description	Starts a multipart upload of an mp4 or webm file
// @Tags		media
// @Accept		json
// @Produce	json
// @Param		request	body		models.InitiateMediaUploadRequest	true	"File info"
// @Security	BearerAuth
// @Success	201	{object}	models.InitiateMediaUploadResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/admin/media/initiate [post]
func (s *Server) InitiateMediaUpload(w http.ResponseWriter, r *http.Request) {
	var req models.InitiateMediaUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Media.Initiate(r.Context(), session.FromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// GetPartUploadURLs presigned URL для частей
// @Summary		Get part upload URLs
// @Tags		media
// @Accept		json
// @Produce	json
// @Param		request	body		models.GetPartUploadURLsRequest	true	"Parts"
// @Security	BearerAuth
// @Success	200	{object}	models.GetPartUploadURLsResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/admin/media/urls [post]
func (s *Server) GetPartUploadURLs(w http.ResponseWriter, r *http.Request) {
	var req models.GetPartUploadURLsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Media.PartURLs(r.Context(), session.FromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// CompleteMediaUpload завершение загрузки
// @Summary		Complete video upload
// @Description	Assembles the parts and checks the stored object is a video of the declared size
// @Tags		media
// @Accept		json
// @Produce	json
// @Param		request	body		models.CompleteMediaUploadRequest	true	"Uploaded parts"
// @Security	BearerAuth
// @Success	200	{object}	models.CompleteMediaUploadResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/admin/media/complete [post]
func (s *Server) CompleteMediaUpload(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteMediaUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.Media.Complete(r.Context(), session.FromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetMediaUpload статус загрузки
// @Summary		Get video upload
// @Tags		media
// @Produce	json
// @Param		id	path		string	true	"Media ID"
// @Security	BearerAuth
// @Success	200	{object}	models.MediaUpload
// @Failure	404	{object}	ErrorResponse
// @Router		/admin/media/{id} [get]
func (s *Server) GetMediaUpload(w http.ResponseWriter, r *http.Request) {
	upload, err := s.Media.Get(r.Context(), session.FromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, upload)
}

// AbortMediaUpload отмена загрузки
// @Summary		Abort video upload
// @Tags		media
// @Produce	json
// @Param		id	path		string	true	"Media ID"
// @Security	BearerAuth
// @Success	200	{object}	MessageResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/admin/media/{id} [delete]
func (s *Server) AbortMediaUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.Media.Abort(r.Context(), session.FromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, MessageResponse{Message: "upload aborted"})
}
