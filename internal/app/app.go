package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tasksApi/internal/config"
	"tasksApi/internal/handlers"
	"tasksApi/internal/logger"
	"tasksApi/internal/openapi"
	"tasksApi/internal/repository"
	taskstore "tasksApi/internal/repository/task"
	"tasksApi/internal/service"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const docPath = "/doc"

type App struct {
	config    *config.Config
	server    *http.Server
	resolver  *repository.Resolver
	service   handlers.Service
	shutdowns []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Level, a.config.IsDevelopment()); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	a.resolver = repository.NewResolver(
		repository.WithOpener(taskstore.Opener(a.config.Database)),
		repository.WithOpenTimeout(a.config.Database.ConnectTimeout),
	)
	a.shutdowns = append(a.shutdowns, func() {
		if err := a.resolver.Close(); err != nil {
			logger.Error("App: Ошибка закрытия хранилища", err)
		}
	})

	// хранилище может подняться позже, сервер стартует и без него
	if _, err := a.resolver.Resolve(ctx); err != nil {
		logger.Warn("App: Хранилище недоступно при старте", zap.Error(err))
	}

	a.service = service.NewTaskService(a.resolver)

	docs, err := openapi.NewDocs(openapi.Info{
		ServerURL:         a.config.ServerURL(),
		ServerDescription: serverDescription(a.config),
	}, docPath)
	if err != nil {
		return nil, fmt.Errorf("документация openapi: %w", err)
	}

	router := NewRouter(a.service, envInfo(a.config), docs)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(router, "tasks-api"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// Run обслуживает запросы до отмены ctx, затем мягко останавливает сервер
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("App: Сервер запущен",
			zap.String("addr", a.server.Addr),
			zap.String("env", a.config.Env),
			zap.String("runtime", string(a.config.Runtime)))

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("App: Получен сигнал остановки")
	case err, ok := <-errCh:
		if ok {
			runErr = fmt.Errorf("запуск сервера: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
		if runErr == nil {
			runErr = fmt.Errorf("остановка сервера: %w", err)
		}
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return runErr
}

func envInfo(cfg *config.Config) handlers.EnvInfo {
	return handlers.EnvInfo{
		Runtime:              string(cfg.Runtime),
		NodeEnv:              cfg.Env,
		LogLevel:             cfg.Logging.Level,
		Port:                 cfg.Server.Port,
		CloudflareConfigured: cfg.Cloudflare.Configured(),
	}
}

func serverDescription(cfg *config.Config) string {
	if cfg.Env == config.EnvProduction {
		return "生产环境"
	}
	return "本地开发环境"
}
