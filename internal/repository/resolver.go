package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"tasksApi/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultOpenTimeout = 5 * time.Second

// Opener открывает настроенное хранилище
type Opener func(ctx context.Context) (TaskRepository, error)

type ResolverOption func(*Resolver)

// WithRepository подставляет готовое хранилище, например в тестах
func WithRepository(repo TaskRepository) ResolverOption {
	return func(r *Resolver) {
		r.repo = repo
	}
}

func WithOpener(open Opener) ResolverOption {
	return func(r *Resolver) {
		r.open = open
	}
}

// WithOpenTimeout ограничивает одну попытку открытия хранилища
func WithOpenTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		if timeout > 0 {
			r.openTimeout = timeout
		}
	}
}

// Resolver выдаёт хранилище для текущего окружения.
// Подставленное хранилище имеет приоритет, иначе настроенное открывается лениво
// и кэшируется после первого успешного открытия.
// Одновременные вызовы делят одну попытку открытия, каждый ждёт её не дольше своего ctx
type Resolver struct {
	mtx         sync.Mutex
	repo        TaskRepository
	open        Opener
	openTimeout time.Duration
	group       singleflight.Group
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{openTimeout: DefaultOpenTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context) (TaskRepository, error) {
	if repo, ok := r.cached(); ok {
		return repo, nil
	}
	if r.open == nil {
		return nil, NewNotConfigured()
	}

	// попытка не привязана к отмене первого вызвавшего, её ограничивает openTimeout
	openCtx := context.WithoutCancel(ctx)
	results := r.group.DoChan("open", func() (any, error) {
		return r.openOnce(openCtx)
	})

	select {
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(TaskRepository), nil
	case <-ctx.Done():
		logger.Warn("Repository: Ожидание хранилища прервано", zap.Error(ctx.Err()))
		return nil, &ConfigurationError{Message: MsgOpenFailed, Err: ctx.Err()}
	}
}

func (r *Resolver) cached() (TaskRepository, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.repo, r.repo != nil
}

func (r *Resolver) openOnce(ctx context.Context) (TaskRepository, error) {
	if repo, ok := r.cached(); ok {
		return repo, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.openTimeout)
	defer cancel()

	repo, err := r.open(ctx)
	if err != nil {
		logger.Warn("Repository: Не удалось получить хранилище", zap.Error(err))
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		return nil, &ConfigurationError{Message: MsgOpenFailed, Err: err}
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.repo != nil {
		// хранилище подставили, пока шло открытие
		_ = repo.Close()
		return r.repo, nil
	}

	logger.Info("Repository: Хранилище открыто")
	r.repo = repo
	return repo, nil
}

func (r *Resolver) Close() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.repo == nil {
		return nil
	}
	err := r.repo.Close()
	r.repo = nil
	return err
}
