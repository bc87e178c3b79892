package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

// toRow раскладывает запись каталога по колонкам films
func toRow(t *models.Title) (*ydb.Film, error) {
	in := models.Flatten(t.Record)

	actors, err := json.Marshal(nonNil(in.Actors))
	if err != nil {
		return nil, fmt.Errorf("marshal actors: %w", err)
	}
	genres, err := json.Marshal(nonNil(in.Genres))
	if err != nil {
		return nil, fmt.Errorf("marshal genres: %w", err)
	}

	row := &ydb.Film{
		FilmID:        t.ID,
		Type:          string(in.Type),
		Title:         in.Title,
		TitleSearch:   searchKey(in.Title, in.OriginalTitle),
		OriginalTitle: optional(in.OriginalTitle),
		Year:          int32(in.Year),
		PosterURL:     optional(in.PosterURL),
		Description:   in.Description,
		Director:      optional(in.Director),
		ActorsJSON:    string(actors),
		GenresJSON:    string(genres),
		Country:       optional(in.Country),
		DubbingStudio: optional(in.DubbingStudio),
		Rating:        in.Rating,
		Duration:      optional(in.Duration),
		VideoURL:      optional(in.VideoURL),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}

	if len(in.Seasons) > 0 {
		seasons, err := json.Marshal(in.Seasons)
		if err != nil {
			return nil, fmt.Errorf("marshal seasons: %w", err)
		}
		s := string(seasons)
		row.SeasonsJSON = &s
	}

	return row, nil
}

// fromRow собирает запись каталога из строки, заново проверяя ее
func fromRow(row *ydb.Film) (*models.Title, error) {
	in := models.TitleInput{
		Type:          models.Kind(row.Type),
		Title:         row.Title,
		OriginalTitle: deref(row.OriginalTitle),
		Year:          int(row.Year),
		PosterURL:     deref(row.PosterURL),
		Description:   row.Description,
		Director:      deref(row.Director),
		Country:       deref(row.Country),
		DubbingStudio: deref(row.DubbingStudio),
		Rating:        row.Rating,
		Duration:      deref(row.Duration),
		VideoURL:      deref(row.VideoURL),
	}

	if row.ActorsJSON != "" {
		if err := json.Unmarshal([]byte(row.ActorsJSON), &in.Actors); err != nil {
			return nil, fmt.Errorf("film %s: bad actors: %w", row.FilmID, err)
		}
	}
	if row.GenresJSON != "" {
		if err := json.Unmarshal([]byte(row.GenresJSON), &in.Genres); err != nil {
			return nil, fmt.Errorf("film %s: bad genres: %w", row.FilmID, err)
		}
	}
	if row.SeasonsJSON != nil && *row.SeasonsJSON != "" {
		if err := json.Unmarshal([]byte(*row.SeasonsJSON), &in.Seasons); err != nil {
			return nil, fmt.Errorf("film %s: bad seasons: %w", row.FilmID, err)
		}
	}

	record, err := in.ToRecord()
	if err != nil {
		return nil, fmt.Errorf("film %s: stored record is invalid: %w", row.FilmID, err)
	}

	return &models.Title{
		ID:        row.FilmID,
		Record:    record,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// searchKey строка для поиска по названию и оригинальному названию
func searchKey(title, original string) string {
	key := strings.ToLower(title)
	if original != "" {
		key += "\n" + strings.ToLower(original)
	}
	return key
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
