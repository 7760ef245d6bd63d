package service

import (
	"context"

	"tasksApi/internal/repository"
)

// HandleResolver выдаёт хранилище на время одного запроса
type HandleResolver interface {
	Resolve(ctx context.Context) (repository.TaskRepository, error)
}
