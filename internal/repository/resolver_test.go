package repository_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tasksApi/internal/repository"
	"tasksApi/internal/repository/task/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolver_Injected тестирует приоритет подставленного хранилища
func TestResolver_Injected(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	opened := false

	resolver := repository.NewResolver(
		repository.WithRepository(storage),
		repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
			opened = true
			return inmemory.NewTaskStorage(), nil
		}),
	)

	repo, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, storage, repo)
	assert.False(t, opened)
}

// TestResolver_NotConfigured тестирует отсутствие хранилища
func TestResolver_NotConfigured(t *testing.T) {
	resolver := repository.NewResolver()

	repo, err := resolver.Resolve(context.Background())

	assert.Nil(t, repo)
	var cfgErr *repository.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, repository.MsgNotConfigured, cfgErr.Error())
}

// TestResolver_OpenFailed тестирует обёртку ошибки открытия
func TestResolver_OpenFailed(t *testing.T) {
	cause := errors.New("connection refused")
	resolver := repository.NewResolver(repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
		return nil, cause
	}))

	_, err := resolver.Resolve(context.Background())

	var cfgErr *repository.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), repository.MsgOpenFailed)
}

// TestResolver_OpenerConfigurationError тестирует проброс ConfigurationError как есть
func TestResolver_OpenerConfigurationError(t *testing.T) {
	resolver := repository.NewResolver(repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
		return nil, repository.NewNotConfigured()
	}))

	_, err := resolver.Resolve(context.Background())

	require.Error(t, err)
	assert.Equal(t, repository.MsgNotConfigured, err.Error())
}

// TestResolver_CachesOpened тестирует однократное открытие и повтор после ошибки
func TestResolver_CachesOpened(t *testing.T) {
	calls := 0
	resolver := repository.NewResolver(repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("temporary")
		}
		return inmemory.NewTaskStorage(), nil
	}))
	ctx := context.Background()

	_, err := resolver.Resolve(ctx)
	require.Error(t, err)

	first, err := resolver.Resolve(ctx)
	require.NoError(t, err)
	second, err := resolver.Resolve(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 2, calls)

	require.NoError(t, resolver.Close())
	require.NoError(t, resolver.Close())
}

// TestResolver_WaiterHonoursOwnDeadline тестирует, что ожидающий вызов не ждёт чужое открытие
func TestResolver_WaiterHonoursOwnDeadline(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	resolver := repository.NewResolver(
		repository.WithOpenTimeout(5*time.Second),
		repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return nil, errors.New("dial timeout")
		}),
	)

	firstCtx, cancelFirst := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelFirst()
	firstDone := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(firstCtx)
		firstDone <- err
	}()
	<-started

	secondCtx, cancelSecond := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelSecond()

	start := time.Now()
	repo, err := resolver.Resolve(secondCtx)
	elapsed := time.Since(start)

	assert.Nil(t, repo)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second)

	cancelFirst()
	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("первый вызов не вернулся после отмены")
	}
}

// TestResolver_OpenTimeout тестирует ограничение одной попытки открытия
func TestResolver_OpenTimeout(t *testing.T) {
	resolver := repository.NewResolver(
		repository.WithOpenTimeout(50*time.Millisecond),
		repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	)

	start := time.Now()
	_, err := resolver.Resolve(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

// TestResolver_ConcurrentCallersShareOpen тестирует одно открытие на одновременные вызовы
func TestResolver_ConcurrentCallersShareOpen(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	storage := inmemory.NewTaskStorage()
	resolver := repository.NewResolver(repository.WithOpener(func(ctx context.Context) (repository.TaskRepository, error) {
		calls.Add(1)
		<-release
		return storage, nil
	}))

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan repository.TaskRepository, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo, err := resolver.Resolve(context.Background())
			assert.NoError(t, err)
			results <- repo
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for repo := range results {
		assert.Same(t, storage, repo)
	}
	assert.Equal(t, int32(1), calls.Load())
}
