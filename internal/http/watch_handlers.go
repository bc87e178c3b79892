package http

import (
	"context"
	"net/http"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
)

// historyLimit размер истории по умолчанию
const historyLimit = 50

// playback дополняет тип и длительность из каталога, если клиент их не прислал
func (s *Server) playback(ctx context.Context, titleID string, kind models.Kind, total int64) (models.Kind, int64, error) {
	if kind != "" && total > 0 {
		return kind, total, nil
	}
	title, err := s.Catalog.Get(ctx, titleID)
	if err != nil {
		return "", 0, err
	}
	if kind == "" {
		kind = title.Kind()
	}
	if total <= 0 {
		total = title.DurationSeconds()
	}
	return kind, total, nil
}

// GetWatchState состояние просмотра
// @Summary		Get watch state
// @Description	Missing state reads as not bookmarked with zero progress
// @Tags		watch
// @Produce	json
// @Param		titleId	path		string	true	"Title ID"
// @Security	BearerAuth
// @Success	200	{object}	models.WatchStateResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/watch/{titleId} [get]
func (s *Server) GetWatchState(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchTrack)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := s.Watch.GetState(r.Context(), caller.UserID, r.PathValue("titleId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.NewWatchStateResponse(state))
}

// SaveProgress контрольная точка прогресса
// @Summary		Save progress checkpoint
// @Description	Written only when the offset moved more than 5 seconds since last_saved or playback is within 5 seconds of the end
// @Tags		watch
// @Accept		json
// @Produce	json
// @Param		titleId	path		string						true	"Title ID"
// @Param		request	body		models.SaveProgressRequest	true	"Checkpoint"
// @Security	BearerAuth
// @Success	200	{object}	models.SaveProgressResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/watch/{titleId}/progress [put]
func (s *Server) SaveProgress(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchTrack)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.SaveProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	titleID := r.PathValue("titleId")
	kind, total, err := s.playback(r.Context(), titleID, req.Type, req.TotalDuration)
	if err != nil {
		writeError(w, r, err)
		return
	}

	persisted, progress, err := s.Watch.Checkpoint(r.Context(), caller.UserID, titleID, req.LastSaved, req.Offset, kind, total)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.SaveProgressResponse{Persisted: persisted, Progress: progress})
}

// ReportProgress тик плеера
// @Summary		Report playback position
// @Description	The latest position is written once 10 seconds after the first unsaved tick
// @Tags		watch
// @Accept		json
// @Produce	json
// @Param		titleId	path		string							true	"Title ID"
// @Param		request	body		models.ReportProgressRequest	true	"Position"
// @Security	BearerAuth
// @Success	202	{object}	ReportProgressResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/watch/{titleId}/progress [post]
func (s *Server) ReportProgress(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchTrack)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.ReportProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Type != "" && !req.Type.Valid() {
		writeError(w, r, app_errors.InvalidArgument("type must be one of: film, serial"))
		return
	}

	titleID := r.PathValue("titleId")
	kind, total, err := s.playback(r.Context(), titleID, req.Type, req.TotalDuration)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scheduled, err := s.Tracker.Report(caller.UserID, titleID, req.Offset, kind, total)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, ReportProgressResponse{Scheduled: scheduled})
}

// FinishPlayback окончание просмотра
// @Summary		Playback ended
// @Description	Drops the pending debounced write and stores the full duration immediately
// @Tags		watch
// @Produce	json
// @Param		titleId	path		string	true	"Title ID"
// @Security	BearerAuth
// @Success	200	{object}	FinishResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/watch/{titleId}/ended [post]
func (s *Server) FinishPlayback(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchTrack)
	if err != nil {
		writeError(w, r, err)
		return
	}

	titleID := r.PathValue("titleId")
	kind, total, err := s.playback(r.Context(), titleID, "", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	persisted, err := s.Tracker.Finish(r.Context(), caller.UserID, titleID, kind, total)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, FinishResponse{Persisted: persisted})
}

// CancelPlayback закрытие плеера без сохранения
// @Summary		Drop pending progress
// @Tags		watch
// @Produce	json
// @Param		titleId	path		string	true	"Title ID"
// @Security	BearerAuth
// @Success	200	{object}	MessageResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/watch/{titleId}/session [delete]
func (s *Server) CancelPlayback(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchTrack)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "no pending progress"
	if s.Tracker.Cancel(caller.UserID, r.PathValue("titleId")) {
		message = "pending progress dropped"
	}
	writeJSON(w, r, http.StatusOK, MessageResponse{Message: message})
}

// ToggleBookmark закладка
// @Summary		Set or clear bookmark
// @Description	Clearing requires an existing watch state; progress is never touched
// @Tags		watch
// @Accept		json
// @Produce	json
// @Param		titleId	path		string							true	"Title ID"
// @Param		request	body		models.ToggleBookmarkRequest	true	"Bookmark flag"
// @Security	BearerAuth
// @Success	200	{object}	models.WatchStateResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/watch/{titleId}/bookmark [put]
func (s *Server) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchBookmark)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.ToggleBookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	titleID := r.PathValue("titleId")
	kind := req.Type
	if req.Bookmarked && kind == "" {
		title, err := s.Catalog.Get(r.Context(), titleID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		kind = title.Kind()
	}
	if err := s.Watch.ToggleBookmark(r.Context(), caller.UserID, titleID, req.Bookmarked, kind); err != nil {
		writeError(w, r, err)
		return
	}

	state, err := s.Watch.GetState(r.Context(), caller.UserID, titleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.NewWatchStateResponse(state))
}

// ListBookmarks закладки пользователя
// @Summary		List bookmarks
// @Tags		watch
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	BookmarksResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/me/bookmarks [get]
func (s *Server) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchBookmark)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := s.Watch.Bookmarks(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, BookmarksResponse{Items: items})
}

// WatchHistory история просмотра
// @Summary		Watch history
// @Tags		watch
// @Produce	json
// @Param		limit	query		int	false	"Max entries"	default(50)
// @Security	BearerAuth
// @Success	200	{object}	HistoryResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/me/history [get]
func (s *Server) WatchHistory(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireCaller(r, rbac.PermissionWatchTrack)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := queryInt(r, "limit", historyLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := s.Watch.History(r.Context(), caller.UserID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, HistoryResponse{Items: items})
}
