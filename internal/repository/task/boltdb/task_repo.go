package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tasksApi/internal/logger"
	"tasksApi/internal/models/task"
	repo "tasksApi/internal/repository"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var tasksBucket = []byte("tasks")

// Storage хранит задачи в файле BoltDB.
// Ключ - id в big-endian, поэтому курсор отдаёт задачи в порядке создания
type Storage struct {
	db  *bolt.DB
	now func() time.Time
}

func Open(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("Repository: Не удалось создать каталог BoltDB", err, zap.String("path", path))
			return nil, fmt.Errorf("создание каталога: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		logger.Error("Repository: Не удалось открыть BoltDB", err, zap.String("path", path))
		return nil, fmt.Errorf("открытие boltdb: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tasksBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("создание bucket: %w", err)
	}

	logger.Info("Repository: Успешное открытие BoltDB", zap.String("path", path))
	return &Storage{db: db, now: time.Now}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	logger.Info("Repository: Закрытие BoltDB")
	return s.db.Close()
}

func (s *Storage) Probe(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(tasksBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s не найден", tasksBucket)
		}
		bucket.Cursor().First()
		return nil
	})
}

func (s *Storage) List(ctx context.Context) ([]task.Task, error) {
	tasks := []task.Task{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(tasksBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var t task.Task
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("декодирование задачи %d: %w", binary.BigEndian.Uint64(k), err)
			}
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *Storage) Insert(ctx context.Context, input task.NewTask) (*task.Task, error) {
	var created task.Task
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(tasksBucket)

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		now := s.now().UTC()
		created = task.Task{
			ID:        int64(seq),
			Name:      input.Name,
			Done:      input.Done,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return put(bucket, &created)
	})
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}
	return &created, nil
}

func (s *Storage) Get(ctx context.Context, id int64) (*task.Task, error) {
	var found *task.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx.Bucket(tasksBucket), id)
		return err
	})
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, err
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Int64("id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

func (s *Storage) Patch(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	var patched *task.Task
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(tasksBucket)

		found, err := get(bucket, id)
		if err != nil {
			return err
		}
		task.Apply(found, s.now().UTC(), patch.Options()...)
		patched = found
		return put(bucket, found)
	})
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, err
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("id", id))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return patched, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(tasksBucket)
		key := idKey(id)
		if bucket.Get(key) == nil {
			return nil
		}
		count = 1
		return bucket.Delete(key)
	})
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Int64("id", id))
		return 0, fmt.Errorf("удаление задачи: %w", err)
	}
	return count, nil
}

func get(bucket *bolt.Bucket, id int64) (*task.Task, error) {
	payload := bucket.Get(idKey(id))
	if payload == nil {
		return nil, repo.ErrNotFound
	}
	var t task.Task
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func put(bucket *bolt.Bucket, t *task.Task) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return bucket.Put(idKey(t.ID), payload)
}

func idKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}
