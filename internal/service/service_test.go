package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasksApi/internal/models/task"
	"tasksApi/internal/repository"
	"tasksApi/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) List(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) Insert(ctx context.Context, input task.NewTask) (*task.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Patch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Probe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Close() error {
	return nil
}

var _ repository.TaskRepository = (*MockTaskRepository)(nil)

func newService(repo *MockTaskRepository) *service.TaskService {
	return service.NewTaskService(repository.NewResolver(repository.WithRepository(repo)))
}

func sampleTask(id int64) *task.Task {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &task.Task{ID: id, Name: "Sample", CreatedAt: now, UpdatedAt: now}
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	var busErr *service.BusinessError
	require.True(t, errors.As(err, &busErr), "ожидалась BusinessError, получено %v", err)
	assert.Equal(t, service.CodeNotFound, busErr.Code)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskService_ListTasks тестирует получение списка
func TestTaskService_ListTasks(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
		expectLen   int
	}{
		{
			name: "success - two tasks",
			setupMock: func(m *MockTaskRepository) {
				m.On("List", mock.Anything).Return([]task.Task{*sampleTask(1), *sampleTask(2)}, nil)
			},
			expectLen: 2,
		},
		{
			name: "error - storage failure",
			setupMock: func(m *MockTaskRepository) {
				m.On("List", mock.Anything).Return(nil, errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			tasks, err := newService(mockRepo).ListTasks(context.Background())

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, tasks, tt.expectLen)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_CreateTask тестирует создание задачи
func TestTaskService_CreateTask(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	input := task.NewTask{Name: "Sample"}
	mockRepo.On("Insert", mock.Anything, input).Return(sampleTask(7), nil)

	created, err := newService(mockRepo).CreateTask(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	mockRepo.AssertExpectations(t)
}

// TestTaskService_GetTask тестирует получение задачи
func TestTaskService_GetTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(1)).Return(sampleTask(1), nil)

		found, err := newService(mockRepo).GetTask(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

		_, err := newService(mockRepo).GetTask(context.Background(), 9)

		requireNotFound(t, err)
	})

	t.Run("storage failure is not a not-found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(9)).Return(nil, errors.New("timeout"))

		_, err := newService(mockRepo).GetTask(context.Background(), 9)

		require.Error(t, err)
		var busErr *service.BusinessError
		assert.False(t, errors.As(err, &busErr))
	})
}

// TestTaskService_PatchTask тестирует частичное обновление
func TestTaskService_PatchTask(t *testing.T) {
	done := true
	patch := task.Patch{Done: &done}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		patched := sampleTask(3)
		patched.Done = true
		mockRepo.On("Patch", mock.Anything, int64(3), patch).Return(patched, nil)

		got, err := newService(mockRepo).PatchTask(context.Background(), 3, patch)

		require.NoError(t, err)
		assert.True(t, got.Done)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Patch", mock.Anything, int64(3), patch).Return(nil, repository.ErrNotFound)

		_, err := newService(mockRepo).PatchTask(context.Background(), 3, patch)

		requireNotFound(t, err)
	})
}

// TestTaskService_DeleteTask тестирует удаление по числу удалённых строк
func TestTaskService_DeleteTask(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		repoErr   error
		checkFunc func(*testing.T, error)
	}{
		{
			name:  "success - one row deleted",
			count: 1,
			checkFunc: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "not found - zero rows",
			count: 0,
			checkFunc: func(t *testing.T, err error) {
				requireNotFound(t, err)
			},
		},
		{
			name:    "error - storage failure",
			repoErr: errors.New("db connection failed"),
			checkFunc: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.NotErrorIs(t, err, repository.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Delete", mock.Anything, int64(5)).Return(tt.count, tt.repoErr)

			err := newService(mockRepo).DeleteTask(context.Background(), 5)

			tt.checkFunc(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_NotConfigured тестирует работу без хранилища
func TestTaskService_NotConfigured(t *testing.T) {
	svc := service.NewTaskService(repository.NewResolver())
	ctx := context.Background()

	_, err := svc.ListTasks(ctx)
	var cfgErr *repository.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	assert.False(t, svc.HasDatabase(ctx))
	assert.Error(t, svc.ProbeDatabase(ctx))
}

// TestTaskService_ProbeDatabase тестирует проверку хранилища
func TestTaskService_ProbeDatabase(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Probe", mock.Anything).Return(nil)

		svc := newService(mockRepo)

		assert.True(t, svc.HasDatabase(context.Background()))
		assert.NoError(t, svc.ProbeDatabase(context.Background()))
	})

	t.Run("probe fails", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Probe", mock.Anything).Return(errors.New(`relation "tasks" does not exist`))

		err := newService(mockRepo).ProbeDatabase(context.Background())

		assert.EqualError(t, err, `relation "tasks" does not exist`)
	})
}
