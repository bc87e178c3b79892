package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/validation"
)

// Kind дискриминант записи каталога
type Kind string

const (
	KindFilm   Kind = "film"
	KindSerial Kind = "serial"
)

// Valid проверяет, что kind один из film/serial
func (k Kind) Valid() bool {
	return k == KindFilm || k == KindSerial
}

const (
	maxTitleLength       = 300
	maxDescriptionLength = 5000
	maxShortFieldLength  = 200
	maxListItems         = 100
)

// Metadata общие поля фильма и сериала
type Metadata struct {
	Title         string
	OriginalTitle string
	Year          int
	PosterURL     string
	Description   string
	Director      string
	Actors        []string
	Genres        []string
	Country       string
	DubbingStudio string
	Rating        *float64
	// Duration текстовая метка вида "2 ч. 15 м."
	Duration string
}

// Record запись каталога: *FilmRecord или *SeriesRecord.
// Создается только через NewFilmRecord / NewSeriesRecord.
type Record interface {
	Kind() Kind
	Meta() Metadata
	isRecord()
}

// FilmRecord полнометражный фильм с одним видео
type FilmRecord struct {
	Metadata
	VideoURL string
}

func (*FilmRecord) Kind() Kind       { return KindFilm }
func (f *FilmRecord) Meta() Metadata { return f.Metadata }
func (*FilmRecord) isRecord()        {}

// SeriesRecord сериал с сезонами и эпизодами
type SeriesRecord struct {
	Metadata
	Seasons []Season
}

func (*SeriesRecord) Kind() Kind       { return KindSerial }
func (s *SeriesRecord) Meta() Metadata { return s.Metadata }
func (*SeriesRecord) isRecord()        {}

// Season сезон сериала
// @Description	Season with ordered episodes
type Season struct {
	Number   int       `json:"season_number"`
	Episodes []Episode `json:"episodes"`
}

// Episode эпизод сезона
// @Description	Episode of a season
type Episode struct {
	Number      int    `json:"episode_number"`
	Title       string `json:"title"`
	VideoURL    string `json:"video_url"`
	Description string `json:"description,omitempty"`
}

// NewFilmRecord проверяет метаданные и ссылку на видео
func NewFilmRecord(meta Metadata, videoURL string) (*FilmRecord, error) {
	clean, err := sanitizeMetadata(meta)
	if err != nil {
		return nil, err
	}

	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, app_errors.InvalidArgument("video_url is required for a film")
	}
	if err := validation.ValidateMediaURL(videoURL, "video_url"); err != nil {
		return nil, app_errors.InvalidArgument("%s", err.Error())
	}

	return &FilmRecord{Metadata: clean, VideoURL: videoURL}, nil
}

// NewSeriesRecord проверяет метаданные и структуру сезонов:
// хотя бы один сезон, в каждом хотя бы один эпизод с названием и видео.
func NewSeriesRecord(meta Metadata, seasons []Season) (*SeriesRecord, error) {
	clean, err := sanitizeMetadata(meta)
	if err != nil {
		return nil, err
	}

	if len(seasons) == 0 {
		return nil, app_errors.InvalidArgument("a serial must have at least one season")
	}

	out := make([]Season, 0, len(seasons))
	seenSeasons := make(map[int]bool, len(seasons))
	for i, s := range seasons {
		if s.Number <= 0 {
			return nil, app_errors.InvalidArgument("season %d: season_number must be positive", i+1)
		}
		if seenSeasons[s.Number] {
			return nil, app_errors.InvalidArgument("season %d is listed twice", s.Number)
		}
		seenSeasons[s.Number] = true

		if len(s.Episodes) == 0 {
			return nil, app_errors.InvalidArgument("season %d must have at least one episode", s.Number)
		}

		episodes := make([]Episode, 0, len(s.Episodes))
		for j, e := range s.Episodes {
			ep, err := sanitizeEpisode(s.Number, j, e)
			if err != nil {
				return nil, err
			}
			episodes = append(episodes, ep)
		}
		out = append(out, Season{Number: s.Number, Episodes: episodes})
	}

	return &SeriesRecord{Metadata: clean, Seasons: out}, nil
}

func sanitizeEpisode(season, idx int, e Episode) (Episode, error) {
	field := fmt.Sprintf("season %d episode %d", season, idx+1)

	if e.Number <= 0 {
		return Episode{}, app_errors.InvalidArgument("%s: episode_number must be positive", field)
	}
	title, err := validation.SanitizeText(e.Title, field+" title", validation.PlainText(maxTitleLength).Require())
	if err != nil {
		return Episode{}, app_errors.InvalidArgument("%s", err.Error())
	}
	videoURL := strings.TrimSpace(e.VideoURL)
	if videoURL == "" {
		return Episode{}, app_errors.InvalidArgument("%s: video_url is required", field)
	}
	if err := validation.ValidateMediaURL(videoURL, field+" video_url"); err != nil {
		return Episode{}, app_errors.InvalidArgument("%s", err.Error())
	}
	description, err := validation.SanitizeText(e.Description, field+" description", validation.PlainText(maxDescriptionLength))
	if err != nil {
		return Episode{}, app_errors.InvalidArgument("%s", err.Error())
	}

	return Episode{Number: e.Number, Title: title, VideoURL: videoURL, Description: description}, nil
}

func sanitizeMetadata(m Metadata) (Metadata, error) {
	var (
		out Metadata
		err error
	)

	text := func(value, field string, opts validation.TextOptions) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = validation.SanitizeText(value, field, opts)
		return v
	}

	out.Title = text(m.Title, "title", validation.PlainText(maxTitleLength).Require())
	out.OriginalTitle = text(m.OriginalTitle, "original_title", validation.PlainText(maxTitleLength))
	out.Description = text(m.Description, "description", validation.PlainText(maxDescriptionLength).Require())
	out.Director = text(m.Director, "director", validation.PlainText(maxShortFieldLength))
	out.Country = text(m.Country, "country", validation.PlainText(maxShortFieldLength))
	out.DubbingStudio = text(m.DubbingStudio, "dubbing_studio", validation.PlainText(maxShortFieldLength))
	out.Duration = text(m.Duration, "duration", validation.PlainText(50))
	if err != nil {
		return Metadata{}, app_errors.InvalidArgument("%s", err.Error())
	}

	if m.Year <= 0 {
		return Metadata{}, app_errors.InvalidArgument("year is required")
	}
	if m.Year < 1888 || m.Year > time.Now().Year()+5 {
		return Metadata{}, app_errors.InvalidArgument("year %d is out of range", m.Year)
	}
	out.Year = m.Year

	if m.Rating != nil {
		if *m.Rating < 0 || *m.Rating > 10 {
			return Metadata{}, app_errors.InvalidArgument("rating must be between 0 and 10")
		}
		r := *m.Rating
		out.Rating = &r
	}

	if out.Duration != "" {
		if _, ok := ParseDurationLabel(out.Duration); !ok {
			return Metadata{}, app_errors.InvalidArgument("duration %q must look like \"2 ч. 15 м.\"", out.Duration)
		}
	}

	if poster := strings.TrimSpace(m.PosterURL); poster != "" {
		if err := validation.ValidateMediaURL(poster, "poster_url"); err != nil {
			return Metadata{}, app_errors.InvalidArgument("%s", err.Error())
		}
		out.PosterURL = poster
	}

	if out.Actors, err = sanitizeList(m.Actors, "actors"); err != nil {
		return Metadata{}, err
	}
	if out.Genres, err = sanitizeList(m.Genres, "genres"); err != nil {
		return Metadata{}, err
	}

	return out, nil
}

// sanitizeList сохраняет порядок и отбрасывает пустые элементы
func sanitizeList(items []string, field string) ([]string, error) {
	if len(items) > maxListItems {
		return nil, app_errors.InvalidArgument("%s: at most %d items allowed", field, maxListItems)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		v, err := validation.SanitizeText(item, field, validation.PlainText(maxShortFieldLength))
		if err != nil {
			return nil, app_errors.InvalidArgument("%s", err.Error())
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// TitleInput плоская форма записи, в которой она приходит от клиента и хранится в кэше
// @Description	Film or serial payload; type selects which of video_url / seasons applies
type TitleInput struct {
	Type          Kind     `json:"type" example:"film"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	Year          int      `json:"year"`
	PosterURL     string   `json:"poster_url,omitempty"`
	Description   string   `json:"description"`
	Director      string   `json:"director,omitempty"`
	Actors        []string `json:"actors,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Country       string   `json:"country,omitempty"`
	DubbingStudio string   `json:"dubbing_studio,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	VideoURL      string   `json:"video_url,omitempty"`
	Seasons       []Season `json:"seasons,omitempty"`
}

func (in TitleInput) metadata() Metadata {
	return Metadata{
		Title:         in.Title,
		OriginalTitle: in.OriginalTitle,
		Year:          in.Year,
		PosterURL:     in.PosterURL,
		Description:   in.Description,
		Director:      in.Director,
		Actors:        in.Actors,
		Genres:        in.Genres,
		Country:       in.Country,
		DubbingStudio: in.DubbingStudio,
		Rating:        in.Rating,
		Duration:      in.Duration,
	}
}

// ToRecord строит вариант по полю type. Поля чужого варианта считаются ошибкой.
func (in TitleInput) ToRecord() (Record, error) {
	switch in.Type {
	case KindFilm:
		if len(in.Seasons) > 0 {
			return nil, app_errors.InvalidArgument("a film cannot have seasons")
		}
		return NewFilmRecord(in.metadata(), in.VideoURL)
	case KindSerial:
		if strings.TrimSpace(in.VideoURL) != "" {
			return nil, app_errors.InvalidArgument("a serial cannot have a video_url, use episodes")
		}
		return NewSeriesRecord(in.metadata(), in.Seasons)
	case "":
		return nil, app_errors.InvalidArgument("type is required")
	default:
		return nil, app_errors.InvalidArgument("type must be one of: film, serial")
	}
}

// Flatten обратное к ToRecord преобразование
func Flatten(r Record) TitleInput {
	m := r.Meta()
	in := TitleInput{
		Type:          r.Kind(),
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Year:          m.Year,
		PosterURL:     m.PosterURL,
		Description:   m.Description,
		Director:      m.Director,
		Actors:        append([]string(nil), m.Actors...),
		Genres:        append([]string(nil), m.Genres...),
		Country:       m.Country,
		DubbingStudio: m.DubbingStudio,
		Duration:      m.Duration,
	}
	if m.Rating != nil {
		rating := *m.Rating
		in.Rating = &rating
	}

	switch v := r.(type) {
	case *FilmRecord:
		in.VideoURL = v.VideoURL
	case *SeriesRecord:
		in.Seasons = cloneSeasons(v.Seasons)
	}
	return in
}

func cloneSeasons(seasons []Season) []Season {
	out := make([]Season, len(seasons))
	for i, s := range seasons {
		out[i] = Season{Number: s.Number, Episodes: append([]Episode(nil), s.Episodes...)}
	}
	return out
}

// TitlePatch частичное обновление: nil поле не меняется
// @Description	Partial title update; omitted fields keep their value
type TitlePatch struct {
	Type          *Kind     `json:"type,omitempty"`
	Title         *string   `json:"title,omitempty"`
	OriginalTitle *string   `json:"original_title,omitempty"`
	Year          *int      `json:"year,omitempty"`
	PosterURL     *string   `json:"poster_url,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Director      *string   `json:"director,omitempty"`
	Actors        *[]string `json:"actors,omitempty"`
	Genres        *[]string `json:"genres,omitempty"`
	Country       *string   `json:"country,omitempty"`
	DubbingStudio *string   `json:"dubbing_studio,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	Duration      *string   `json:"duration,omitempty"`
	VideoURL      *string   `json:"video_url,omitempty"`
	Seasons       *[]Season `json:"seasons,omitempty"`
}

// IsEmpty true если патч ничего не меняет
func (p TitlePatch) IsEmpty() bool {
	return p == TitlePatch{}
}

// Apply накладывает патч на base и заново валидирует результат.
// Смена type отбрасывает поля прежнего варианта.
func (p TitlePatch) Apply(base Record) (Record, error) {
	in := Flatten(base)

	if p.Type != nil && *p.Type != in.Type {
		in.Type = *p.Type
		in.VideoURL = ""
		in.Seasons = nil
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&in.Title, p.Title)
	setString(&in.OriginalTitle, p.OriginalTitle)
	setString(&in.PosterURL, p.PosterURL)
	setString(&in.Description, p.Description)
	setString(&in.Director, p.Director)
	setString(&in.Country, p.Country)
	setString(&in.DubbingStudio, p.DubbingStudio)
	setString(&in.Duration, p.Duration)
	setString(&in.VideoURL, p.VideoURL)

	if p.Year != nil {
		in.Year = *p.Year
	}
	if p.Rating != nil {
		rating := *p.Rating
		in.Rating = &rating
	}
	if p.Actors != nil {
		in.Actors = *p.Actors
	}
	if p.Genres != nil {
		in.Genres = *p.Genres
	}
	if p.Seasons != nil {
		in.Seasons = *p.Seasons
	}

	return in.ToRecord()
}

// Title запись каталога с идентификатором и временными метками
type Title struct {
	ID        string
	Record    Record
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kind безопасен для Title без записи
func (t *Title) Kind() Kind {
	if t == nil || t.Record == nil {
		return ""
	}
	return t.Record.Kind()
}

// DurationSeconds длительность фильма по метке; 0 если неизвестна
func (t *Title) DurationSeconds() int64 {
	if t == nil || t.Record == nil {
		return 0
	}
	seconds, _ := ParseDurationLabel(t.Record.Meta().Duration)
	return seconds
}

// TitleView JSON-представление Title
// @Description	Catalog title (film or serial)
type TitleView struct {
	ID string `json:"id"`
	TitleInput
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Title) MarshalJSON() ([]byte, error) {
	if t.Record == nil {
		return nil, fmt.Errorf("title %s has no record", t.ID)
	}
	return json.Marshal(TitleView{
		ID:         t.ID,
		TitleInput: Flatten(t.Record),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	})
}

func (t *Title) UnmarshalJSON(data []byte) error {
	var view TitleView
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}
	record, err := view.TitleInput.ToRecord()
	if err != nil {
		return err
	}
	*t = Title{ID: view.ID, Record: record, CreatedAt: view.CreatedAt, UpdatedAt: view.UpdatedAt}
	return nil
}

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*ч`)
	minutesRe = regexp.MustCompile(`(\d+)\s*м`)
	secondsRe = regexp.MustCompile(`(\d+)\s*сек`)
)

// ParseDurationLabel разбирает метку вида "2 ч. 15 м." в секунды.
// Допускаются части по отдельности: "95 м.", "1 ч.".
func ParseDurationLabel(label string) (int64, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, false
	}

	var total int64
	matched := false

	if m := hoursRe.FindStringSubmatch(label); m != nil {
		h, _ := strconv.ParseInt(m[1], 10, 64)
		total += h * 3600
		matched = true
	}
	if m := minutesRe.FindStringSubmatch(label); m != nil {
		mins, _ := strconv.ParseInt(m[1], 10, 64)
		total += mins * 60
		matched = true
	}
	if m := secondsRe.FindStringSubmatch(label); m != nil {
		s, _ := strconv.ParseInt(m[1], 10, 64)
		total += s
		matched = true
	}

	if !matched || total <= 0 {
		return 0, false
	}
	return total, true
}

// FormatDuration форматирует секунды как "1 ч. 2 м. 3 сек."
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%d ч.", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%d м.", m))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d сек.", s))
	}
	return strings.Join(parts, " ")
}
