package task

import (
	"time"
)

type TaskOption func(*Task)

func WithName(name string) TaskOption {
	return func(task *Task) {
		task.Name = name
	}
}

func WithDone(done bool) TaskOption {
	return func(task *Task) {
		task.Done = done
	}
}

// Apply применяет опции и обновляет updated_at.
// updated_at никогда не становится меньше created_at
func Apply(t *Task, now time.Time, options ...TaskOption) {
	for _, opt := range options {
		opt(t)
	}
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
}
