package handlers

import (
	"fmt"
	"net/http"
	"time"

	"tasksApi/internal/handlers/dto"
	"tasksApi/internal/logger"

	"go.uber.org/zap"
)

const (
	msgDatabaseOK     = "数据库连接成功"
	msgDatabaseFailed = "数据库连接失败"
	indexMessage      = "Tasks API"

	// миллисекунды и Z, как у toISOString
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// EnvInfo - то, что сервис сообщает о своём окружении
type EnvInfo struct {
	Runtime              string
	NodeEnv              string
	LogLevel             string
	Port                 string
	CloudflareConfigured bool
}

type EnvHandler struct {
	service Service
	env     EnvInfo
	now     func() time.Time
}

func NewEnvHandler(service Service, env EnvInfo) *EnvHandler {
	return &EnvHandler{
		service: service,
		env:     env,
		now:     time.Now,
	}
}

func (h *EnvHandler) EnvInfo(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	responseWithBody(w, http.StatusOK, dto.EnvInfoResponse{
		Runtime:     h.env.Runtime,
		NodeEnv:     h.env.NodeEnv,
		LogLevel:    h.env.LogLevel,
		HasDatabase: h.service.HasDatabase(r.Context()),
		Features: dto.EnvFeatures{
			Port:                 h.env.Port,
			CloudflareConfigured: h.env.CloudflareConfigured,
		},
	})
}

// TestDB делает реальное чтение из tasks, ошибка отдаётся как 400 с описанием
func (h *EnvHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if err := h.service.ProbeDatabase(r.Context()); err != nil {
		logger.Warn("HTTP: Проверка базы данных не прошла", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", msgDatabaseFailed, err.Error()))
		return
	}

	responseWithBody(w, http.StatusOK, dto.TestDBResponse{
		Success:   true,
		Message:   msgDatabaseOK,
		Timestamp: h.now().UTC().Format(timestampLayout),
	})
}

func Index(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, toPayload("message", indexMessage))
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	logger.Warn("HTTP: Маршрут не найден", zap.String("path", r.URL.Path))
	responseWithMessage(w, http.StatusNotFound, fmt.Sprintf("%s - %s", msgNotFound, r.URL.Path))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	logger.Warn("HTTP: Неверный метод",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	responseWithMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
