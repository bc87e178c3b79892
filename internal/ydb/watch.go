package ydb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
)

const watchColumns = `user_id, film_id, is_bookmarked, progress, total_duration, type, last_watched_at, updated_at`

func scanWatchData(res result.Result, w *WatchData) error {
	return res.ScanNamed(
		named.Required("user_id", &w.UserID),
		named.Required("film_id", &w.FilmID),
		named.OptionalWithDefault("is_bookmarked", &w.IsBookmarked),
		named.OptionalWithDefault("progress", &w.Progress),
		named.OptionalWithDefault("total_duration", &w.TotalDuration),
		named.OptionalWithDefault("type", &w.Type),
		named.Optional("last_watched_at", &w.LastWatchedAt),
		named.OptionalWithDefault("updated_at", &w.UpdatedAt),
	)
}

// GetWatchData получает состояние просмотра; nil без ошибки если записи нет
func (c *YDBClient) GetWatchData(ctx context.Context, userID, filmID string) (*WatchData, error) {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $film_id AS Text;
		SELECT ` + watchColumns + `
		FROM watch_data
		WHERE user_id = $user_id AND film_id = $film_id
	`

	var data *WatchData

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		data = nil
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
				table.ValueParam("$film_id", types.TextValue(filmID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			var w WatchData
			if err := scanWatchData(res, &w); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			data = &w
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return data, nil
}

// UpsertWatchProgress пишет только колонки прогресса одним запросом.
// is_bookmarked не входит в список колонок UPSERT и сохраняет прежнее значение.
func (c *YDBClient) UpsertWatchProgress(ctx context.Context, data *WatchData) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $film_id AS Text;
		DECLARE $progress AS Int64;
		DECLARE $total_duration AS Int64;
		DECLARE $type AS Text;
		DECLARE $last_watched_at AS Timestamp;

		UPSERT INTO watch_data (user_id, film_id, progress, total_duration, type, last_watched_at, updated_at)
		VALUES ($user_id, $film_id, $progress, $total_duration, $type, $last_watched_at, $last_watched_at)
	`

	at := time.Now()
	if data.LastWatchedAt != nil {
		at = *data.LastWatchedAt
	} else {
		data.LastWatchedAt = &at
	}
	data.UpdatedAt = at

	return c.execute(ctx, query,
		table.ValueParam("$user_id", types.TextValue(data.UserID)),
		table.ValueParam("$film_id", types.TextValue(data.FilmID)),
		table.ValueParam("$progress", types.Int64Value(data.Progress)),
		table.ValueParam("$total_duration", types.Int64Value(data.TotalDuration)),
		table.ValueParam("$type", types.TextValue(data.Type)),
		table.ValueParam("$last_watched_at", types.TimestampValueFromTime(at)),
	)
}

// UpsertBookmark ставит закладку, создавая запись при необходимости.
// Колонки прогресса не пишутся; пустой filmType не затирает сохраненный тип.
func (c *YDBClient) UpsertBookmark(ctx context.Context, userID, filmID, filmType string, at time.Time) error {
	params := []table.ParameterOption{
		table.ValueParam("$user_id", types.TextValue(userID)),
		table.ValueParam("$film_id", types.TextValue(filmID)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(at)),
	}

	if filmType == "" {
		query := `
			DECLARE $user_id AS Text;
			DECLARE $film_id AS Text;
			DECLARE $updated_at AS Timestamp;

			UPSERT INTO watch_data (user_id, film_id, is_bookmarked, updated_at)
			VALUES ($user_id, $film_id, true, $updated_at)
		`
		return c.execute(ctx, query, params...)
	}

	query := `
		DECLARE $user_id AS Text;
		DECLARE $film_id AS Text;
		DECLARE $type AS Text;
		DECLARE $updated_at AS Timestamp;

		UPSERT INTO watch_data (user_id, film_id, is_bookmarked, type, updated_at)
		VALUES ($user_id, $film_id, true, $type, $updated_at)
	`
	params = append(params, table.ValueParam("$type", types.TextValue(filmType)))
	return c.execute(ctx, query, params...)
}

// ClearBookmark снимает закладку только у существующей записи.
// Проверка и UPDATE выполняются в одной транзакции.
func (c *YDBClient) ClearBookmark(ctx context.Context, userID, filmID string, at time.Time) (bool, error) {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $film_id AS Text;
		DECLARE $updated_at AS Timestamp;

		SELECT COUNT(*) AS cnt FROM watch_data
		WHERE user_id = $user_id AND film_id = $film_id;

		UPDATE watch_data
		SET is_bookmarked = false, updated_at = $updated_at
		WHERE user_id = $user_id AND film_id = $film_id;
	`

	var count uint64

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
				table.ValueParam("$film_id", types.TextValue(filmID)),
				table.ValueParam("$updated_at", types.TimestampValueFromTime(at)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("cnt", &count)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListWatchData выбирает состояния пользователя, последние изменения первыми.
// Для истории (StartedOnly) порядок по времени последнего просмотра.
func (c *YDBClient) ListWatchData(ctx context.Context, userID string, filter WatchDataFilter) ([]*WatchData, error) {
	where := []string{"user_id = $user_id"}
	orderBy := "updated_at"
	if filter.BookmarkedOnly {
		where = append(where, "is_bookmarked = true")
	}
	if filter.StartedOnly {
		where = append(where, "progress > 0")
		orderBy = "last_watched_at"
	}

	query := `
		DECLARE $user_id AS Text;
		DECLARE $limit AS Uint64;
		SELECT ` + watchColumns + `
		FROM watch_data
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderBy + ` DESC
		LIMIT $limit
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}

	var items []*WatchData

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		items = items[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
				table.ValueParam("$limit", types.Uint64Value(uint64(limit))),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var w WatchData
				if err := scanWatchData(res, &w); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				items = append(items, &w)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return items, nil
}
