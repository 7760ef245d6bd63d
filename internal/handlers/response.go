package handlers

import (
	"encoding/json"
	"net/http"

	"tasksApi/internal/handlers/dto"
	"tasksApi/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

// responseWithJSON собирает объект из пар ключ-значение
func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any, len(payload))
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	responseWithBody(w, code, storage)
}

// responseWithBody пишет готовое значение: структуру или массив
func responseWithBody(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func responseWithMessage(w http.ResponseWriter, code int, message string) {
	responseWithBody(w, code, dto.MessageResponse{Message: message})
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithBody(w, code, dto.ErrorResponse{Error: message})
}
