package handlers

import (
	"net/http"
	"time"

	"tasksApi/internal/handlers/dto"
	"tasksApi/internal/logger"
	"tasksApi/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := s.TaskService.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Debug("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	body, ok := readJSONBody(w, r)
	if !ok {
		return
	}

	input, err := validation.ValidateCreate(body)
	if err != nil {
		handleInputError(w, err)
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)))

	responseWithBody(w, http.StatusOK, dto.FromTask(created))
}

func (s *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := validation.ValidateIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handleInputError(w, err)
		return
	}

	found, err := s.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromTask(found))
}

func (s *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := validation.ValidateIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handleInputError(w, err)
		return
	}

	body, ok := readJSONBody(w, r)
	if !ok {
		return
	}

	// пустой патч отклоняется до обращения к хранилищу
	patch, err := validation.ValidatePatch(body)
	if err != nil {
		handleInputError(w, err)
		return
	}

	patched, err := s.TaskService.PatchTask(r.Context(), id, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))

	responseWithBody(w, http.StatusOK, dto.FromTask(patched))
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := validation.ValidateIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handleInputError(w, err)
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена", zap.Int64("task_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if !checkContentType(r, contentTypeJSON) {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", contentTypeJSON),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithMessage(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return nil, false
	}

	body, err := readBody(r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения тела", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithMessage(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return body, true
}
