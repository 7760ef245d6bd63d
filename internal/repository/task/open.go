package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasksApi/internal/config"
	"tasksApi/internal/logger"
	"tasksApi/internal/repository"
	"tasksApi/internal/repository/task/boltdb"
	"tasksApi/internal/repository/task/inmemory"
	"tasksApi/internal/repository/task/postgres"

	"go.uber.org/zap"
)

const (
	schemePostgres   = "postgres://"
	schemePostgreSQL = "postgresql://"
	schemeBolt       = "bolt://"
	schemeMemory     = "memory://"
)

// Open открывает хранилище по схеме DATABASE_URL
func Open(ctx context.Context, cfg config.DatabaseConfig) (repository.TaskRepository, error) {
	url := strings.TrimSpace(cfg.URL)

	switch {
	case url == "":
		return nil, repository.NewNotConfigured()

	case strings.HasPrefix(url, schemePostgres), strings.HasPrefix(url, schemePostgreSQL):
		storage, err := postgres.New(ctx, url, postgres.Options{
			MaxConnections: cfg.MaxConnections,
			MinConnections: cfg.MinConnections,
			IdleTimeout:    cfg.IdleTimeout,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureSchema(ctx); err != nil {
			storage.Close()
			return nil, err
		}
		return storage, nil

	case strings.HasPrefix(url, schemeBolt):
		path := strings.TrimPrefix(url, schemeBolt)
		if path == "" {
			return nil, &repository.ConfigurationError{Message: repository.MsgOpenFailed, Err: errors.New("пустой путь к файлу BoltDB")}
		}
		storage, err := boltdb.Open(path)
		if err != nil {
			return nil, err
		}
		return storage, nil

	case strings.HasPrefix(url, schemeMemory):
		logger.Warn("Repository: Используется хранилище в памяти, данные не сохраняются")
		return inmemory.NewTaskStorage(), nil

	default:
		logger.Warn("Repository: Неизвестная схема DATABASE_URL", zap.String("url", redact(url)))
		return nil, &repository.ConfigurationError{Message: repository.MsgNotConfigured, Err: fmt.Errorf("неизвестная схема %q", redact(url))}
	}
}

// Opener откладывает Open до первого запроса к хранилищу
func Opener(cfg config.DatabaseConfig) repository.Opener {
	return func(ctx context.Context) (repository.TaskRepository, error) {
		return Open(ctx, cfg)
	}
}

// redact оставляет только схему, чтобы не писать пароль в лог
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	return "..."
}
