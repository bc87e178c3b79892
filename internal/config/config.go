package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment (production, staging, development)
	Env string

	// S3/Storage configuration
	S3Endpoint          string
	S3Region            string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	KTObjStoreBucket    string
	KTPublicMediaPrefix string

	// YDB configuration
	KTYDBEndpoint         string
	KTYDBDatabasePath     string
	KTYDBSAKeyFile        string
	KTYDBAutoCreateTables int

	// Redis configuration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTLSeconds  int
	CacheListTTLSecs int

	// Telegram configuration
	TelegramBotToken    string
	TelegramAdminChatID string

	// Sentry configuration
	SentryDSN string
	Release   string

	// JWT configuration
	JWTSecretKey string

	// Email/Postbox configuration
	SESEndpoint        string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
	EmailFrom          string
	AppURL             string

	// Watch progress configuration
	ProgressMinDeltaSeconds  int
	ProgressEndWindowSeconds int
	ProgressDebounceSeconds  int

	// Upload limits
	AvatarMaxBytes int64
	PosterMaxBytes int64
	MediaMaxBytes  int64

	// HTTP configuration
	HTTPPort string
}

func Load() *Config {
	// .env необязателен, в облаке переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to read .env file: %v", err)
	}

	s3Endpoint := getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net")
	// If the env var is set but is an empty string, it will override the default.
	if s3Endpoint == "" {
		s3Endpoint = "https://storage.yandexcloud.net"
	}
	if !strings.HasPrefix(s3Endpoint, "http://") && !strings.HasPrefix(s3Endpoint, "https://") {
		s3Endpoint = "https://" + s3Endpoint
		log.Printf("WARN: S3_ENDPOINT was missing a protocol scheme. Prepending 'https://'. New endpoint: %s", s3Endpoint)
	}

	return &Config{
		Env: getEnv("KT_ENV", "development"),

		// S3/Storage configuration
		S3Endpoint:          s3Endpoint,
		S3Region:            getEnv("S3_REGION", "ru-central1"),
		AWSAccessKeyID:      getEnvOptional("KT_SA_KEY_ID"),
		AWSSecretAccessKey:  getEnvOptional("KT_SA_KEY"),
		KTObjStoreBucket:    getEnv("KT_OBJSTORE_BUCKET_MEDIA", "kinoteka-media"),
		KTPublicMediaPrefix: getEnv("KT_PUBLIC_MEDIA_PREFIX", "public/"),

		// YDB configuration
		KTYDBEndpoint:         getEnvOptional("KT_YDB_ENDPOINT"),
		KTYDBDatabasePath:     getEnvOptional("KT_YDB_DATABASE_PATH"),
		KTYDBSAKeyFile:        getEnvOptional("KT_YDB_SA_KEY_FILE"),
		KTYDBAutoCreateTables: getEnvInt("KT_YDB_AUTO_CREATE_TABLES", 0, 0, 1),

		// Redis configuration
		RedisAddr:        getEnvOptional("KT_REDIS_ADDR"),
		RedisPassword:    getEnvOptional("KT_REDIS_PASSWORD"),
		RedisDB:          getEnvInt("KT_REDIS_DB", 0, 0, 15),
		CacheTTLSeconds:  getEnvInt("KT_CACHE_TTL_SECONDS", 1800, 0, 86400),
		CacheListTTLSecs: getEnvInt("KT_CACHE_LIST_TTL_SECONDS", 300, 0, 86400),

		// Telegram configuration
		TelegramBotToken:    getEnvOptional("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID: getEnvOptional("TELEGRAM_CHAT_ID"),

		// Sentry configuration
		SentryDSN: getEnvOptional("SENTRY_DSN"),
		Release:   getEnv("KT_RELEASE", "dev"),

		// JWT configuration
		JWTSecretKey: getEnvOptional("KT_JWT_SECRET_KEY"),

		// Email/Postbox configuration
		SESEndpoint:        getEnvOptional("KT_POSTBOX_ENDPOINT"),
		SESRegion:          getEnv("KT_POSTBOX_REGION", "ru-central1"),
		SESAccessKeyID:     getEnvOptional("KT_POSTBOX_ACCESS_KEY_ID"),
		SESSecretAccessKey: getEnvOptional("KT_POSTBOX_SECRET_ACCESS_KEY"),
		EmailFrom:          getEnvOptional("KT_EMAIL_FROM"),
		AppURL:             getEnv("KT_APP_URL", "https://kinoteka.example"),

		// Watch progress configuration
		ProgressMinDeltaSeconds:  getEnvInt("KT_PROGRESS_MIN_DELTA_SECONDS", 5, 0, 600),
		ProgressEndWindowSeconds: getEnvInt("KT_PROGRESS_END_WINDOW_SECONDS", 5, 0, 600),
		ProgressDebounceSeconds:  getEnvInt("KT_PROGRESS_DEBOUNCE_SECONDS", 10, 1, 600),

		// Upload limits
		AvatarMaxBytes: int64(getEnvInt("KT_AVATAR_MAX_BYTES", 1<<20, 1024, 10<<20)),
		PosterMaxBytes: int64(getEnvInt("KT_POSTER_MAX_BYTES", 5<<20, 1024, 50<<20)),

		// Видео загружается напрямую в бакет по presigned URL частей
		MediaMaxBytes: int64(getEnvInt("KT_MEDIA_MAX_BYTES", 20<<30, 1<<20, 100<<30)),

		// HTTP configuration
		HTTPPort: getEnv("KT_HTTP_PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if fallback == "" {
		log.Fatalf("FATAL: Environment variable %s is not set.", key)
	}
	return fallback
}

// getEnvOptional возвращает значение или пустую строку без остановки процесса
func getEnvOptional(key string) string {
	return os.Getenv(key)
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, fallback, min, max int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			if n < min {
				return min
			}
			if n > max {
				return max
			}
			return n
		}
		log.Printf("WARN: %s=%q is not an integer, using default %d", key, v, fallback)
	}

	if fallback < min {
		return min
	}
	if fallback > max {
		return max
	}
	return fallback
}

// IsProduction сообщает, запущен ли сервис в продакшене
func (c *Config) IsProduction() bool {
	return getEnvAsBool("KT_FORCE_PRODUCTION", false) || c.Env == "production"
}
