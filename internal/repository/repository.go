package repository

import (
	"context"
	"errors"

	"tasksApi/internal/models/task"
)

var ErrNotFound = errors.New("запись не найдена")

// TaskRepository - минимальный набор операций над таблицей tasks.
// Реализации: task/inmemory, task/boltdb, task/postgres
type TaskRepository interface {
	List(ctx context.Context) ([]task.Task, error)
	Insert(ctx context.Context, input task.NewTask) (*task.Task, error)
	Get(ctx context.Context, id int64) (*task.Task, error)
	Patch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	// Delete возвращает число удалённых строк: 0 или 1
	Delete(ctx context.Context, id int64) (int64, error)
	// Probe делает одно реальное чтение из tasks
	Probe(ctx context.Context) error
	Close() error
}

// ConfigurationError - хранилище нельзя получить: не задано или не открывается
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

const (
	MsgNotConfigured = "数据库绑定未找到"
	MsgOpenFailed    = "无法打开数据库"
)

func NewNotConfigured() *ConfigurationError {
	return &ConfigurationError{Message: MsgNotConfigured}
}
