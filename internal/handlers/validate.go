package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
)

const (
	contentTypeJSON = "application/json"
	maxBodyBytes    = 1 << 20
)

// checkContentType пропускает запрос без Content-Type,
// но отклоняет явно указанный тип, отличный от target
func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("чтение тела запроса: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("тело запроса больше %d байт", maxBodyBytes)
	}
	return body, nil
}
