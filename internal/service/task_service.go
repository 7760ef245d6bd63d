package service

import (
	"context"
	"errors"
	"fmt"

	"tasksApi/internal/logger"
	"tasksApi/internal/models/task"
	rep "tasksApi/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// здесь ошибки хранилища превращаются в ошибки бизнес-логики

const resourceTask = "задача"

var tracer = otel.Tracer("tasksApi/internal/service")

type TaskService struct {
	resolver HandleResolver
}

func NewTaskService(resolver HandleResolver) *TaskService {
	return &TaskService{
		resolver: resolver,
	}
}

func (s *TaskService) ListTasks(ctx context.Context) ([]task.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.List")
	defer span.End()

	repo, err := s.resolve(ctx, span)
	if err != nil {
		return nil, err
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, input task.NewTask) (*task.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.Create",
		trace.WithAttributes(attribute.Int("task.name_length", len(input.Name))))
	defer span.End()

	repo, err := s.resolve(ctx, span)
	if err != nil {
		return nil, err
	}

	created, err := repo.Insert(ctx, input)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	span.SetAttributes(attribute.Int64("task.id", created.ID))
	logger.Debug("Service: Задача создана", zap.Int64("task_id", created.ID))
	return created, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.GetByID",
		trace.WithAttributes(attribute.Int64("task.id", id)))
	defer span.End()

	repo, err := s.resolve(ctx, span)
	if err != nil {
		return nil, err
	}

	found, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			span.SetAttributes(attribute.Bool("task.found", false))
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(resourceTask, id, err)
		}
		recordError(span, err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return found, nil
}

func (s *TaskService) PatchTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.Patch",
		trace.WithAttributes(attribute.Int64("task.id", id)))
	defer span.End()

	repo, err := s.resolve(ctx, span)
	if err != nil {
		return nil, err
	}

	patched, err := repo.Patch(ctx, id, patch)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			span.SetAttributes(attribute.Bool("task.found", false))
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(resourceTask, id, err)
		}
		recordError(span, err)
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return patched, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "TaskService.Delete",
		trace.WithAttributes(attribute.Int64("task.id", id)))
	defer span.End()

	repo, err := s.resolve(ctx, span)
	if err != nil {
		return err
	}

	count, err := repo.Delete(ctx, id)
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if count == 0 {
		span.SetAttributes(attribute.Bool("task.found", false))
		logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
		return NewNotFound(resourceTask, id, rep.ErrNotFound)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return nil
}

// HasDatabase сообщает, удаётся ли получить хранилище. Ошибка не возвращается
func (s *TaskService) HasDatabase(ctx context.Context) bool {
	_, err := s.resolver.Resolve(ctx)
	return err == nil
}

// ProbeDatabase получает хранилище и делает одно чтение
func (s *TaskService) ProbeDatabase(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "TaskService.Probe")
	defer span.End()

	repo, err := s.resolve(ctx, span)
	if err != nil {
		return err
	}

	if err := repo.Probe(ctx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (s *TaskService) resolve(ctx context.Context, span trace.Span) (rep.TaskRepository, error) {
	repo, err := s.resolver.Resolve(ctx)
	if err != nil {
		recordError(span, err)
		logger.Warn("Service: Хранилище недоступно", zap.Error(err))
		return nil, err
	}
	return repo, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
