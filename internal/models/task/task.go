package task

import (
	"time"
)

// Task - единственная сущность сервиса, строка таблицы tasks
type Task struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Done      bool      `json:"done" db:"done"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewTask - проверенные поля для создания задачи. id и даты назначает хранилище
type NewTask struct {
	Name string
	Done bool
}

// Patch - частичное обновление, nil означает "поле не передано"
type Patch struct {
	Name *string
	Done *bool
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Done == nil
}

// Options превращает патч в набор функций обновления
func (p Patch) Options() []TaskOption {
	options := make([]TaskOption, 0, 2)
	if p.Name != nil {
		options = append(options, WithName(*p.Name))
	}
	if p.Done != nil {
		options = append(options, WithDone(*p.Done))
	}
	return options
}

const MaxNameLength = 500
