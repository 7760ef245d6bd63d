package handlers

import (
	"context"

	"tasksApi/internal/models/task"
)

type Service interface {
	ListTasks(context.Context) ([]task.Task, error)
	CreateTask(context.Context, task.NewTask) (*task.Task, error)
	GetTask(context.Context, int64) (*task.Task, error)
	PatchTask(context.Context, int64, task.Patch) (*task.Task, error)
	DeleteTask(context.Context, int64) error
	HasDatabase(context.Context) bool
	ProbeDatabase(context.Context) error
}
