package http

import (
	"net/http"

	"github.com/lumiforge/kinoteka-backend/internal/catalog"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
)

func titleList(titles []*models.Title) TitleListResponse {
	if titles == nil {
		titles = []*models.Title{}
	}
	return TitleListResponse{Titles: titles, Total: len(titles)}
}

// ListTitles список каталога
// @Summary		List catalog
// @Description	All titles, newest first. type narrows to films or series
// @Tags		catalog
// @Produce	json
// @Param		type	query		string	false	"Title type"	Enums(film, serial)
// @Success	200	{object}	TitleListResponse
// @Failure	400	{object}	ErrorResponse
// @Router		/catalog [get]
func (s *Server) ListTitles(w http.ResponseWriter, r *http.Request) {
	var (
		titles []*models.Title
		err    error
	)
	if kind := r.URL.Query().Get("type"); kind != "" {
		titles, err = s.Catalog.ListByKind(r.Context(), models.Kind(kind))
	} else {
		titles, err = s.Catalog.List(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, titleList(titles))
}

// LatestTitles последние добавленные
// @Summary		Latest titles
// @Tags		catalog
// @Produce	json
// @Param		count	query		int	false	"How many"	default(6)
// @Success	200	{object}	TitleListResponse
// @Router		/catalog/latest [get]
func (s *Server) LatestTitles(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", catalog.DefaultLatestCount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	titles, err := s.Catalog.Latest(r.Context(), count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, titleList(titles))
}

// SearchTitles поиск по названию
// @Summary		Search catalog
// @Description	Case-insensitive substring match on title and original title
// @Tags		catalog
// @Produce	json
// @Param		q	query		string	true	"Query"
// @Success	200	{object}	TitleListResponse
// @Failure	400	{object}	ErrorResponse
// @Router		/catalog/search [get]
func (s *Server) SearchTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := s.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, titleList(titles))
}

// GetTitle запись каталога
// @Summary		Get title
// @Tags		catalog
// @Produce	json
// @Param		id	path		string	true	"Title ID"
// @Success	200	{object}	models.TitleView
// @Failure	404	{object}	ErrorResponse
// @Router		/catalog/{id} [get]
func (s *Server) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := s.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, title)
}

// CreateTitle добавляет фильм или сериал
// @Summary		Create title
// @Description	film requires video_url and no seasons; serial requires seasons with episodes and no video_url
// @Tags		catalog
// @Accept		json
// @Produce	json
// @Param		request	body		models.TitleInput	true	"Title"
// @Security	BearerAuth
// @Success	201	{object}	models.TitleView
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/catalog [post]
func (s *Server) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var in models.TitleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	title, err := s.Catalog.Create(r.Context(), session.FromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, title)
}

// UpdateTitle частичное обновление
// @Summary		Update title
// @Description	Merges the given fields and re-validates; last write wins
// @Tags		catalog
// @Accept		json
// @Produce	json
// @Param		id		path		string				true	"Title ID"
// @Param		request	body		models.TitlePatch	true	"Changed fields"
// @Security	BearerAuth
// @Success	200	{object}	models.TitleView
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/catalog/{id} [patch]
func (s *Server) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var patch models.TitlePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	title, err := s.Catalog.Update(r.Context(), session.FromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, title)
}

// UploadPoster загрузка постера
// @Summary		Upload poster
// @Description	Raw image body; the stored URL replaces poster_url
// @Tags		catalog
// @Accept		image/png,image/jpeg,image/gif,image/webp
// @Produce	json
// @Param		id	path		string	true	"Title ID"
// @Security	BearerAuth
// @Success	200	{object}	models.TitleView
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/catalog/{id}/poster [put]
func (s *Server) UploadPoster(w http.ResponseWriter, r *http.Request) {
	// Права проверяются до чтения тела
	if _, err := s.requireCaller(r, rbac.PermissionCatalogManage); err != nil {
		writeError(w, r, err)
		return
	}

	body, size, err := readUpload(r, s.PosterMaxBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	title, err := s.Catalog.UploadPoster(r.Context(), session.FromContext(r.Context()), r.PathValue("id"), r.Header.Get("Content-Type"), body, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, title)
}
