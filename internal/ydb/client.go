package ydb

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/config"
	"github.com/ydb-platform/ydb-go-sdk/v3"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
	yc "github.com/ydb-platform/ydb-go-yc"
)

// YDBClient реализация интерфейса Database
type YDBClient struct {
	driver       *ydb.Driver
	databasePath string
}

// NewYDBClient создает новый клиент YDB
func NewYDBClient(ctx context.Context, cfg *config.Config) (*YDBClient, error) {
	endpoint := cfg.KTYDBEndpoint
	database := cfg.KTYDBDatabasePath

	if endpoint == "" || database == "" {
		return nil, fmt.Errorf("YDB credentials not provided. Please set KT_YDB_ENDPOINT and KT_YDB_DATABASE_PATH environment variables")
	}

	opts := []ydb.Option{ydb.WithDatabase(database)}
	if cfg.KTYDBSAKeyFile != "" {
		// Локальный запуск с ключом сервисного аккаунта
		opts = append(opts, yc.WithServiceAccountKeyFileCredentials(cfg.KTYDBSAKeyFile), yc.WithInternalCA())
	} else {
		opts = append(opts, yc.WithMetadataCredentials())
	}

	driver, err := ydb.Open(ctx, endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to YDB: %w", err)
	}

	slog.Info("Successfully connected to YDB", "database", database)

	client := &YDBClient{
		driver:       driver,
		databasePath: database,
	}

	// Создаём таблицы только если флаг установлен
	if cfg.KTYDBAutoCreateTables > 0 {
		slog.Info("KT_YDB_AUTO_CREATE_TABLES is enabled, checking and creating tables")
		if err := client.createTables(ctx); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return client, nil
}

// Close закрывает соединение с базой данных
func (c *YDBClient) Close() error {
	if c.driver != nil {
		return c.driver.Close(context.Background())
	}
	return nil
}

type tableDefinition struct {
	name string
	ddl  string
}

var tableDefinitions = []tableDefinition{
	{"accounts", `
		CREATE TABLE accounts (
			account_id Text NOT NULL,
			email Text NOT NULL,
			password_hash Text NOT NULL,
			display_name Text,
			admin_claim Bool,
			created_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (account_id),
			INDEX email_idx GLOBAL UNIQUE ON (email) COVER (password_hash, display_name, admin_claim, created_at, updated_at)
		)
	`},
	{"users", `
		CREATE TABLE users (
			user_id Text NOT NULL,
			email Text,
			display_name Text,
			username Text,
			bio Text,
			avatar_url Text,
			date_of_birth Timestamp,
			role Text,
			is_admin Bool,
			created_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (user_id)
		)
	`},
	{"films", `
		CREATE TABLE films (
			film_id Text NOT NULL,
			type Text,
			title Text,
			title_search Text,
			original_title Text,
			year Int32,
			poster_url Text,
			description Text,
			director Text,
			actors Json,
			genres Json,
			country Text,
			dubbing_studio Text,
			rating Double,
			duration Text,
			video_url Text,
			seasons Json,
			created_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (film_id),
			INDEX type_idx GLOBAL ON (type, created_at)
		)
	`},
	{"watch_data", `
		CREATE TABLE watch_data (
			user_id Text NOT NULL,
			film_id Text NOT NULL,
			is_bookmarked Bool,
			progress Int64,
			total_duration Int64,
			type Text,
			last_watched_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (user_id, film_id)
		)
	`},
	{"media_uploads", `
		CREATE TABLE media_uploads (
			media_id Text NOT NULL,
			object_key Text,
			s3_upload_id Text,
			file_name Text,
			content_type Text,
			file_size_bytes Int64,
			total_parts Int32,
			status Text,
			public_url Text,
			created_by Text,
			created_at Timestamp,
			completed_at Timestamp,
			PRIMARY KEY (media_id)
		)
	`},
	{"audit_logs", `
		CREATE TABLE audit_logs (
			id Text NOT NULL,
			timestamp Timestamp NOT NULL,
			user_id Text,
			action_type Text,
			action_result Text,
			target_id Text,
			ip_address Text,
			user_agent Text,
			details Json,
			PRIMARY KEY (id),
			INDEX timestamp_idx GLOBAL ON (timestamp)
		)
	`},
}

// createTables создает отсутствующие таблицы
func (c *YDBClient) createTables(ctx context.Context) error {
	slog.Info("Starting table creation")
	for i, def := range tableDefinitions {
		exists, err := c.tableExists(ctx, def.name)
		if err != nil {
			return fmt.Errorf("failed to check %s table existence: %w", def.name, err)
		}
		if exists {
			slog.Info("Table already exists, skipping creation", "table", def.name)
			continue
		}

		slog.Info("Creating table", "table", def.name)
		if err := c.executeSchemeQuery(ctx, def.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", def.name, err)
		}

		// Небольшая задержка между созданием таблиц для избежания лимита schema operations
		if i < len(tableDefinitions)-1 {
			time.Sleep(500 * time.Millisecond)
		}
	}
	return nil
}

// tableExists проверяет наличие таблицы
func (c *YDBClient) tableExists(ctx context.Context, tableName string) (bool, error) {
	fullPath := path.Join(c.databasePath, tableName)
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, err := session.DescribeTable(ctx, fullPath)
		return err
	})

	if err != nil {
		// YDB returns SchemeError with "Path not found" usually
		msg := err.Error()
		if strings.Contains(msg, "not found") ||
			strings.Contains(msg, "does not exist") ||
			strings.Contains(msg, "code = 400070") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// executeSchemeQuery выполняет DDL запрос
func (c *YDBClient) executeSchemeQuery(ctx context.Context, query string) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		return session.ExecuteSchemeQuery(ctx, query)
	})
}

// execute выполняет запрос без чтения результата
func (c *YDBClient) execute(ctx context.Context, query string, params ...table.ParameterOption) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(params...))
		return err
	})
}

func optionalText(name string, v *string) table.ParameterOption {
	if v == nil {
		return table.ValueParam(name, types.NullValue(types.TypeText))
	}
	return table.ValueParam(name, types.OptionalValue(types.TextValue(*v)))
}

func optionalTimestamp(name string, v *time.Time) table.ParameterOption {
	if v == nil {
		return table.ValueParam(name, types.NullValue(types.TypeTimestamp))
	}
	return table.ValueParam(name, types.OptionalValue(types.TimestampValueFromTime(*v)))
}

func optionalInt32(name string, v *int32) table.ParameterOption {
	if v == nil {
		return table.ValueParam(name, types.NullValue(types.TypeInt32))
	}
	return table.ValueParam(name, types.OptionalValue(types.Int32Value(*v)))
}

func optionalDouble(name string, v *float64) table.ParameterOption {
	if v == nil {
		return table.ValueParam(name, types.NullValue(types.TypeDouble))
	}
	return table.ValueParam(name, types.OptionalValue(types.DoubleValue(*v)))
}

func jsonOrEmpty(v string, empty string) types.Value {
	if v == "" {
		return types.JSONValue(empty)
	}
	return types.JSONValue(v)
}
