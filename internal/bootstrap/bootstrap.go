package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/auth"
	"github.com/lumiforge/kinoteka-backend/internal/cache"
	"github.com/lumiforge/kinoteka-backend/internal/callable"
	"github.com/lumiforge/kinoteka-backend/internal/catalog"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	"github.com/lumiforge/kinoteka-backend/internal/email"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	httpserver "github.com/lumiforge/kinoteka-backend/internal/http"
	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/media"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/roles"
	"github.com/lumiforge/kinoteka-backend/internal/storage"
	"github.com/lumiforge/kinoteka-backend/internal/telegram"
	"github.com/lumiforge/kinoteka-backend/internal/telemetry"
	"github.com/lumiforge/kinoteka-backend/internal/watch"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

// App собранное приложение: роутер и освобождение ресурсов
type App struct {
	Handler http.Handler
	Config  *config.Config

	closers []func()
}

// Close сбрасывает отложенный прогресс и закрывает соединения, в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Initialize настраивает все зависимости и возвращает готовое приложение
func Initialize(ctx context.Context) (*App, error) {
	// Загрузка конфигурации
	cfg := config.Load()
	app := &App{Config: cfg}

	// Инициализация Telegram клиента
	tgClient := telegram.NewClient(cfg)

	// Sentry до логгера, чтобы ошибки шли и туда
	sinks := []logger.AlertSink{tgClient}
	sentryEnabled, err := telemetry.InitSentry(cfg)
	if err != nil {
		slog.Warn("Failed to initialize Sentry", "error", err)
	}
	if sentryEnabled {
		sinks = append(sinks, telemetry.Alerter{})
		app.closers = append(app.closers, telemetry.Flush)
	}

	// Инициализация логгера
	log := logger.New(sinks...)
	slog.SetDefault(log)

	// Инициализация YDB
	db, err := ydb.NewYDBClient(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to YDB", "error", err)
		return nil, app_errors.ErrFailedToConnectYDB
	}
	app.closers = append(app.closers, func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close YDB driver", "error", err)
		}
	})

	// Инициализация JWT менеджера
	jwtManager := jwt.NewJWTManager(cfg)
	if jwtManager == nil {
		app.Close()
		return nil, app_errors.ErrJWTSecretKeyNotConfigured
	}

	// Инициализация RBAC
	rbacManager := rbac.NewRBAC()

	// Инициализация email клиента
	emailClient := email.NewClient(cfg)

	// Инициализация S3 клиента
	storageClient, err := storage.NewClient(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize storage client", "error", err)
		app.Close()
		return nil, app_errors.ErrFailedToInitStorageClient
	}

	// Redis необязателен: без него кэш выключен, а счетчик попыток входа не работает
	var appCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg)
		if err != nil {
			log.Warn("Redis unavailable, cache disabled", "error", err)
		} else {
			appCache = redisCache
			app.closers = append(app.closers, func() { _ = redisCache.Close() })
		}
	}

	// Инициализация сервисов
	auditService := audit.NewService(db, log)
	authService := auth.NewService(db, jwtManager, rbacManager, emailClient, storageClient, appCache, auditService, cfg)
	catalogService := catalog.NewService(db, storageClient, appCache, rbacManager, auditService, cfg)
	watchService := watch.NewService(db, catalogService, cfg)
	mediaService := media.NewService(db, storageClient, rbacManager, auditService, cfg)
	rolesService := roles.NewService(db, rbacManager, emailClient, auditService)

	tracker := watch.NewTracker(watchService, time.Duration(cfg.ProgressDebounceSeconds)*time.Second, log)
	app.closers = append(app.closers, tracker.Close)

	// Вызываемые функции управления ролями
	callables := callable.NewRegistry()
	callables.Register(roles.FunctionUpdateUserRole, callable.Typed(rolesService.UpdateUserRole, rolesService.Authorize))
	callables.Register(roles.FunctionAddAdminRole, callable.Typed(rolesService.AddAdminRole, rolesService.Authorize))

	// Инициализация HTTP сервера
	server := httpserver.NewServer(httpserver.Services{
		Auth:           authService,
		Catalog:        catalogService,
		Watch:          watchService,
		Tracker:        tracker,
		Media:          mediaService,
		Audit:          auditService,
		Callables:      callables,
		RBAC:           rbacManager,
		Release:        cfg.Release,
		AvatarMaxBytes: cfg.AvatarMaxBytes,
		PosterMaxBytes: cfg.PosterMaxBytes,
	})

	// Настройка роутера
	app.Handler = httpserver.SetupRouter(server, jwtManager)

	log.Info("Application initialized successfully", "env", cfg.Env, "release", cfg.Release)
	return app, nil
}
