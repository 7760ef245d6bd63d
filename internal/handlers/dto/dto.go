package dto

import (
	"time"

	"tasksApi/internal/models/task"
	"tasksApi/internal/validation"
)

type TaskResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Name:      t.Name,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromTaskList всегда возвращает не-nil срез, чтобы в JSON был [] а не null
func FromTaskList(tasks []task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i := range tasks {
		result[i] = FromTask(&tasks[i])
	}
	return result
}

type ValidationErrorBody struct {
	Name   string             `json:"name"`
	Issues []validation.Issue `json:"issues"`
}

type ValidationErrorResponse struct {
	Success bool                `json:"success"`
	Error   ValidationErrorBody `json:"error"`
}

func FromValidationError(err *validation.ValidationError) ValidationErrorResponse {
	return ValidationErrorResponse{
		Success: false,
		Error: ValidationErrorBody{
			Name:   validation.ErrorName,
			Issues: err.Issues,
		},
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type EnvFeatures struct {
	Port                 string `json:"port,omitempty"`
	CloudflareConfigured bool   `json:"cloudflareConfigured"`
}

type EnvInfoResponse struct {
	Runtime     string      `json:"runtime"`
	NodeEnv     string      `json:"nodeEnv"`
	LogLevel    string      `json:"logLevel"`
	HasDatabase bool        `json:"hasDatabase"`
	Features    EnvFeatures `json:"features"`
}

type TestDBResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
