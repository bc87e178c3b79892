package ydb

import (
	"context"
	"fmt"
	"strings"
	"time"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
)

const filmColumns = `film_id, type, title, title_search, original_title, year, poster_url, description, director,
	actors, genres, country, dubbing_studio, rating, duration, video_url, seasons, created_at, updated_at`

const filmDeclares = `
		DECLARE $film_id AS Text;
		DECLARE $type AS Text;
		DECLARE $title AS Text;
		DECLARE $title_search AS Text;
		DECLARE $original_title AS Optional<Text>;
		DECLARE $year AS Int32;
		DECLARE $poster_url AS Optional<Text>;
		DECLARE $description AS Text;
		DECLARE $director AS Optional<Text>;
		DECLARE $actors AS Json;
		DECLARE $genres AS Json;
		DECLARE $country AS Optional<Text>;
		DECLARE $dubbing_studio AS Optional<Text>;
		DECLARE $rating AS Optional<Double>;
		DECLARE $duration AS Optional<Text>;
		DECLARE $video_url AS Optional<Text>;
		DECLARE $seasons AS Optional<Json>;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;
`

func filmParams(f *Film) []table.ParameterOption {
	seasons := table.ValueParam("$seasons", types.NullValue(types.TypeJSON))
	if f.SeasonsJSON != nil {
		seasons = table.ValueParam("$seasons", types.OptionalValue(types.JSONValue(*f.SeasonsJSON)))
	}

	return []table.ParameterOption{
		table.ValueParam("$film_id", types.TextValue(f.FilmID)),
		table.ValueParam("$type", types.TextValue(f.Type)),
		table.ValueParam("$title", types.TextValue(f.Title)),
		table.ValueParam("$title_search", types.TextValue(f.TitleSearch)),
		optionalText("$original_title", f.OriginalTitle),
		table.ValueParam("$year", types.Int32Value(f.Year)),
		optionalText("$poster_url", f.PosterURL),
		table.ValueParam("$description", types.TextValue(f.Description)),
		optionalText("$director", f.Director),
		table.ValueParam("$actors", jsonOrEmpty(f.ActorsJSON, "[]")),
		table.ValueParam("$genres", jsonOrEmpty(f.GenresJSON, "[]")),
		optionalText("$country", f.Country),
		optionalText("$dubbing_studio", f.DubbingStudio),
		optionalDouble("$rating", f.Rating),
		optionalText("$duration", f.Duration),
		optionalText("$video_url", f.VideoURL),
		seasons,
		table.ValueParam("$created_at", types.TimestampValueFromTime(f.CreatedAt)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(f.UpdatedAt)),
	}
}

func scanFilm(res result.Result, f *Film) error {
	return res.ScanNamed(
		named.Required("film_id", &f.FilmID),
		named.OptionalWithDefault("type", &f.Type),
		named.OptionalWithDefault("title", &f.Title),
		named.OptionalWithDefault("title_search", &f.TitleSearch),
		named.Optional("original_title", &f.OriginalTitle),
		named.OptionalWithDefault("year", &f.Year),
		named.Optional("poster_url", &f.PosterURL),
		named.OptionalWithDefault("description", &f.Description),
		named.Optional("director", &f.Director),
		named.OptionalWithDefault("actors", &f.ActorsJSON),
		named.OptionalWithDefault("genres", &f.GenresJSON),
		named.Optional("country", &f.Country),
		named.Optional("dubbing_studio", &f.DubbingStudio),
		named.Optional("rating", &f.Rating),
		named.Optional("duration", &f.Duration),
		named.Optional("video_url", &f.VideoURL),
		named.Optional("seasons", &f.SeasonsJSON),
		named.OptionalWithDefault("created_at", &f.CreatedAt),
		named.OptionalWithDefault("updated_at", &f.UpdatedAt),
	)
}

// CreateFilm добавляет запись каталога
func (c *YDBClient) CreateFilm(ctx context.Context, film *Film) error {
	query := filmDeclares + `
		INSERT INTO films (` + filmColumns + `)
		VALUES ($film_id, $type, $title, $title_search, $original_title, $year, $poster_url, $description, $director,
			$actors, $genres, $country, $dubbing_studio, $rating, $duration, $video_url, $seasons, $created_at, $updated_at)
	`

	if film.CreatedAt.IsZero() {
		film.CreatedAt = time.Now()
	}
	if film.UpdatedAt.IsZero() {
		film.UpdatedAt = film.CreatedAt
	}
	film.TitleSearch = strings.ToLower(film.TitleSearch)

	return c.execute(ctx, query, filmParams(film)...)
}

// GetFilm получает запись каталога по ID
func (c *YDBClient) GetFilm(ctx context.Context, filmID string) (*Film, error) {
	query := `
		DECLARE $film_id AS Text;
		SELECT ` + filmColumns + `
		FROM films
		WHERE film_id = $film_id
	`

	var film Film
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$film_id", types.TextValue(filmID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			if err := scanFilm(res, &film); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, app_errors.ErrFilmNotFound
	}
	return &film, nil
}

// UpdateFilm перезаписывает все поля записи; created_at берется из film.
// Конкурентные правки разрешаются по принципу last-write-wins.
func (c *YDBClient) UpdateFilm(ctx context.Context, film *Film) error {
	query := filmDeclares + `
		REPLACE INTO films (` + filmColumns + `)
		VALUES ($film_id, $type, $title, $title_search, $original_title, $year, $poster_url, $description, $director,
			$actors, $genres, $country, $dubbing_studio, $rating, $duration, $video_url, $seasons, $created_at, $updated_at)
	`

	film.UpdatedAt = time.Now()
	film.TitleSearch = strings.ToLower(film.TitleSearch)

	return c.execute(ctx, query, filmParams(film)...)
}

// ListFilms выбирает записи по убыванию даты создания.
// Type и Query необязательны, Limit <= 0 означает без ограничения.
func (c *YDBClient) ListFilms(ctx context.Context, filter FilmFilter) ([]*Film, error) {
	declares := []string{}
	where := []string{}
	params := []table.ParameterOption{}
	from := "films"

	if filter.Type != "" {
		declares = append(declares, "DECLARE $type AS Text;")
		where = append(where, "type = $type")
		params = append(params, table.ValueParam("$type", types.TextValue(filter.Type)))
		from = "films VIEW type_idx"
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		declares = append(declares, "DECLARE $query AS Text;")
		where = append(where, "title_search LIKE $query ESCAPE '!'")
		params = append(params, table.ValueParam("$query", types.TextValue("%"+escapeLike(strings.ToLower(q))+"%")))
	}

	query := strings.Join(declares, "\n") + `
		SELECT ` + filmColumns + `
		FROM ` + from
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query = "DECLARE $limit AS Uint64;\n" + query + ` LIMIT $limit`
		params = append(params, table.ValueParam("$limit", types.Uint64Value(uint64(filter.Limit))))
	}

	var films []*Film

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		films = films[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(params...))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var f Film
				if err := scanFilm(res, &f); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				films = append(films, &f)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return films, nil
}

// escapeLike экранирует спецсимволы LIKE
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
