package handlers

import (
	"errors"
	"net/http"

	"tasksApi/internal/handlers/dto"
	"tasksApi/internal/logger"
	"tasksApi/internal/service"
	"tasksApi/internal/validation"

	"go.uber.org/zap"
)

const msgNotFound = "Not Found"

func handleValidationError(w http.ResponseWriter, err error) bool {
	var validationErr *validation.ValidationError
	if !errors.As(err, &validationErr) {
		return false
	}

	logger.Warn("HTTP: Ошибка валидации", zap.Int("issues", len(validationErr.Issues)))
	responseWithBody(w, http.StatusUnprocessableEntity, dto.FromValidationError(validationErr))
	return true
}

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	if statusCode == http.StatusNotFound {
		responseWithMessage(w, statusCode, msgNotFound)
		return true
	}
	responseWithMessage(w, statusCode, businessErr.Message)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// handleInputError отвечает на ошибку разбора запроса.
// Всё, что не ValidationError, уходит в handleServiceError, чтобы ответ был записан всегда
func handleInputError(w http.ResponseWriter, err error) {
	if handleValidationError(w, err) {
		return
	}
	handleServiceError(w, err)
}

// handleServiceError отвечает на ошибку сервиса: 404 для бизнес-ошибки,
// 500 для отказа хранилища или конфигурации
func handleServiceError(w http.ResponseWriter, err error) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: Ошибка Service", err)
	responseWithMessage(w, http.StatusInternalServerError, err.Error())
}
