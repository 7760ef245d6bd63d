package inmemory

import (
	"context"
	"sync"
	"time"

	"tasksApi/internal/logger"
	"tasksApi/internal/models/task"
	repo "tasksApi/internal/repository"

	"go.uber.org/zap"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	lastID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		now:     time.Now,
	}
}

// WithClock подменяет источник времени, используется в тестах
func (s *TaskStorage) WithClock(now func() time.Time) *TaskStorage {
	s.now = now
	return s
}

func (s *TaskStorage) Probe(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	logger.Debug("Repository: Соединение стабильно", zap.Int("tasks", len(s.ids)))
	return nil
}

func (s *TaskStorage) Close() error {
	return nil
}

// List возвращает задачи в порядке создания
func (s *TaskStorage) List(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		tasks = append(tasks, *s.storage[id])
	}
	return tasks, nil
}

func (s *TaskStorage) Insert(ctx context.Context, input task.NewTask) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	s.lastID++
	created := &task.Task{
		ID:        s.lastID,
		Name:      input.Name,
		Done:      input.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.storage[created.ID] = created
	s.ids = append(s.ids, created.ID)

	result := *created
	return &result, nil
}

func (s *TaskStorage) Get(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	result := *found
	return &result, nil
}

func (s *TaskStorage) Patch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	found, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	task.Apply(found, s.now(), patch.Options()...)

	result := *found
	return &result, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return 0, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return 1, nil
}
