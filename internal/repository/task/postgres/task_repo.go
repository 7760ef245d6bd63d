package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"tasksApi/internal/logger"
	"tasksApi/internal/models/task"
	repo "tasksApi/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

const slowQuery = time.Millisecond * 100

type Options struct {
	MaxConnections int
	MinConnections int
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if opts.MaxConnections > 0 {
		config.MaxConns = int32(opts.MaxConnections)
	}
	if opts.MinConnections > 0 {
		config.MinConns = int32(opts.MinConnections)
	}
	if opts.ConnectTimeout > 0 {
		config.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}
	if opts.IdleTimeout > 0 {
		config.MaxConnIdleTime = opts.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

// EnsureSchema создаёт таблицу tasks, если её ещё нет
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		logger.Error("Repository: Не удалось создать схему", err)
		return fmt.Errorf("создание схемы: %w", err)
	}
	logger.Info("Repository: Схема tasks готова")
	return nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
	return nil
}

// Probe читает одну строку, а не только ping: так проверяется и наличие таблицы
func (s *Storage) Probe(ctx context.Context) error {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM tasks LIMIT 1`).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("Repository: Неудачная проверка чтения", err)
		return fmt.Errorf("проверка чтения: %w", err)
	}
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) List(ctx context.Context) ([]task.Task, error) {
	start := time.Now()

	query := `SELECT id, name, done, created_at, updated_at
				FROM tasks
				ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		if err := scanTask(rows, &t); err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start)
	return tasks, nil
}

func (s *Storage) Insert(ctx context.Context, input task.NewTask) (*task.Task, error) {
	start := time.Now()

	query := `INSERT INTO tasks (name, done)
				VALUES ($1, $2)
				RETURNING id, name, done, created_at, updated_at`

	created := &task.Task{}
	err := scanTask(s.pool.QueryRow(ctx, query, input.Name, input.Done), created)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start)
	return created, nil
}

func (s *Storage) Get(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT id, name, done, created_at, updated_at
				FROM tasks
				WHERE id = $1`

	found := &task.Task{}
	err := scanTask(s.pool.QueryRow(ctx, query, id), found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Int64("id", id), zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start)
	return found, nil
}

// Patch меняет только переданные поля. NULL в параметре оставляет колонку как есть
func (s *Storage) Patch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	start := time.Now()

	query := `UPDATE tasks
				SET name = COALESCE($2, name),
					done = COALESCE($3, done),
					updated_at = GREATEST(NOW(), created_at, updated_at)
				WHERE id = $1
				RETURNING id, name, done, created_at, updated_at`

	patched := &task.Task{}
	err := scanTask(s.pool.QueryRow(ctx, query, id, patch.Name, patch.Done), patched)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("id", id), zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow(start)
	return patched, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (int64, error) {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Int64("id", id), zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("удаление задачи: %w", err)
	}

	warnIfSlow(start)
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row, t *task.Task) error {
	return row.Scan(&t.ID, &t.Name, &t.Done, &t.CreatedAt, &t.UpdatedAt)
}

func warnIfSlow(start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", elapsed))
	}
}
