package models

import "time"

// ResumeRewindSeconds на сколько секунд откатываться назад при продолжении просмотра
const ResumeRewindSeconds = 20

// WatchState состояние просмотра пары (пользователь, тайтл)
// @Description	Bookmark flag and playback progress for one title
type WatchState struct {
	UserID        string    `json:"user_id"`
	TitleID       string    `json:"title_id"`
	IsBookmarked  bool      `json:"is_bookmarked"`
	Progress      int64     `json:"progress"`
	TotalDuration int64     `json:"total_duration"`
	Type          Kind      `json:"type,omitempty"`
	LastWatchedAt time.Time `json:"last_watched_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Percent доля просмотренного, 0..100
func (s *WatchState) Percent() int {
	if s == nil || s.TotalDuration <= 0 {
		return 0
	}
	p := int(s.Progress * 100 / s.TotalDuration)
	if p > 100 {
		return 100
	}
	return p
}

// ResumeOffset позиция, с которой продолжать: на 20 секунд раньше сохраненной.
// Прогресс за пределами длительности не используется.
func (s *WatchState) ResumeOffset() int64 {
	if s == nil || s.Progress <= 0 {
		return 0
	}
	if s.TotalDuration > 0 && s.Progress > s.TotalDuration {
		return 0
	}
	if s.Progress <= ResumeRewindSeconds {
		return 0
	}
	return s.Progress - ResumeRewindSeconds
}

// CanResume true если просмотр начат и не досмотрен до 98%
func (s *WatchState) CanResume() bool {
	if s == nil || s.Progress <= 0 || s.TotalDuration <= 0 {
		return false
	}
	return s.Progress*100 < s.TotalDuration*98
}

// WatchStateResponse состояние просмотра с вычисленными полями
// @Description	Watch state with resume hints
type WatchStateResponse struct {
	*WatchState
	Percent      int    `json:"percent"`
	ResumeOffset int64  `json:"resume_offset"`
	CanResume    bool   `json:"can_resume"`
	ResumeLabel  string `json:"resume_label,omitempty"`
}

// NewWatchStateResponse заполняет вычисляемые поля
func NewWatchStateResponse(s *WatchState) *WatchStateResponse {
	resp := &WatchStateResponse{
		WatchState:   s,
		Percent:      s.Percent(),
		ResumeOffset: s.ResumeOffset(),
		CanResume:    s.CanResume(),
	}
	if resp.CanResume {
		resp.ResumeLabel = FormatDuration(resp.ResumeOffset)
	}
	return resp
}

// SaveProgressRequest контрольная точка прогресса от плеера
// @Description	Progress checkpoint. last_saved is the offset the client persisted last
type SaveProgressRequest struct {
	Offset        float64 `json:"offset" example:"117"`
	LastSaved     float64 `json:"last_saved" example:"60"`
	TotalDuration int64   `json:"total_duration,omitempty" example:"120"`
	Type          Kind    `json:"type,omitempty" example:"film"`
}

// SaveProgressResponse результат контрольной точки
// @Description	Whether the checkpoint was written
type SaveProgressResponse struct {
	Persisted bool  `json:"persisted"`
	Progress  int64 `json:"progress"`
}

// ReportProgressRequest тик плеера, запись откладывается на окно debounce
// @Description	Player tick; the write is debounced server side
type ReportProgressRequest struct {
	Offset        float64 `json:"offset"`
	TotalDuration int64   `json:"total_duration,omitempty"`
	Type          Kind    `json:"type,omitempty"`
}

// ToggleBookmarkRequest установка флага закладки
// @Description	Set or clear the bookmark flag
type ToggleBookmarkRequest struct {
	Bookmarked bool `json:"bookmarked"`
	Type       Kind `json:"type,omitempty" example:"film"`
}

// BookmarkedTitle закладка вместе с записью каталога
// @Description	Bookmarked title with its watch state
type BookmarkedTitle struct {
	Title *Title      `json:"title"`
	State *WatchState `json:"state"`
}

// HistoryEntry запись истории просмотра
// @Description	Watch history entry
type HistoryEntry struct {
	Title *Title              `json:"title,omitempty"`
	State *WatchStateResponse `json:"state"`
}
