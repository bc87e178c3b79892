// Package cache кэширует ответы каталога в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// Cache хранит JSON значения с TTL. Промах не является ошибкой.
type Cache interface {
	// GetJSON декодирует значение в dest; false если ключа нет
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Incr увеличивает счетчик; ttl выставляется при создании ключа
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Ключи каталога
const (
	KeyAll         = "catalog:all"
	keyKindPrefix  = "catalog:kind:"
	keyTitlePrefix = "catalog:title:"
	keyLoginPrefix = "auth:login:"
)

// KindKey ключ списка по типу записи
func KindKey(kind string) string { return keyKindPrefix + kind }

// TitleKey ключ карточки
func TitleKey(id string) string { return keyTitlePrefix + id }

// LoginAttemptsKey ключ счетчика неудачных входов
func LoginAttemptsKey(email string) string { return keyLoginPrefix + email }

// RedisCache реализация Cache поверх go-redis
type RedisCache struct {
	c *goredis.Client
}

// NewRedisCache подключается к Redis и проверяет соединение
func NewRedisCache(ctx context.Context, cfg *config.Config) (*RedisCache, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("KT_REDIS_ADDR is not set")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Successfully connected to Redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return &RedisCache{c: client}, nil
}

// NewRedisCacheFromClient оборачивает готовый клиент
func NewRedisCacheFromClient(c *goredis.Client) *RedisCache {
	return &RedisCache{c: c}
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// битое значение считаем промахом и удаляем
		_ = r.c.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return r.c.Set(ctx, key, data, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

func (r *RedisCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Close закрывает соединение
func (r *RedisCache) Close() error {
	return r.c.Close()
}

// Noop используется когда Redis не настроен: всегда промах, счетчики не растут
type Noop struct{}

func (Noop) GetJSON(context.Context, string, interface{}) (bool, error)         { return false, nil }
func (Noop) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                           { return nil }
func (Noop) Incr(context.Context, string, time.Duration) (int64, error)        { return 0, nil }
