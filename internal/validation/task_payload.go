package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"tasksApi/internal/models/task"
)

const (
	fieldName = "name"
	fieldDone = "done"
	fieldID   = "id"
)

// ValidateCreate проверяет тело POST /tasks. done по умолчанию false
func ValidateCreate(body []byte) (task.NewTask, error) {
	raw, verr := decodeObject(body)
	if verr != nil {
		return task.NewTask{}, verr
	}

	verr = &ValidationError{}
	input := task.NewTask{}

	if value, ok := raw[fieldName]; ok {
		if name, valid := parseName(value, verr); valid {
			input.Name = name
		}
	} else {
		verr.add(CodeInvalidType, MsgRequired, fieldName)
	}

	if value, ok := raw[fieldDone]; ok {
		if done, valid := parseDone(value, verr); valid {
			input.Done = done
		}
	}

	if len(verr.Issues) > 0 {
		return task.NewTask{}, verr
	}
	return input, nil
}

// ValidatePatch проверяет тело PATCH /tasks/{id}.
// Пустое тело или пустой набор известных полей - отдельная ошибка NoUpdatesError
func ValidatePatch(body []byte) (task.Patch, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return task.Patch{}, newNoUpdatesError()
	}

	raw, verr := decodeObject(body)
	if verr != nil {
		return task.Patch{}, verr
	}

	verr = &ValidationError{}
	patch := task.Patch{}

	if value, ok := raw[fieldName]; ok {
		if name, valid := parseName(value, verr); valid {
			patch.Name = &name
		}
	}

	if value, ok := raw[fieldDone]; ok {
		if done, valid := parseDone(value, verr); valid {
			patch.Done = &done
		}
	}

	if len(verr.Issues) > 0 {
		return task.Patch{}, verr
	}
	// неизвестные поля игнорируются, поэтому {"foo": 1} - тоже пустой патч
	if patch.IsEmpty() {
		return task.Patch{}, newNoUpdatesError()
	}
	return patch, nil
}

// ValidateIDParam приводит параметр пути к положительному id
func ValidateIDParam(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		verr := &ValidationError{}
		verr.add(CodeInvalidType, MsgExpectedNumber, fieldID)
		return 0, verr
	}
	if id <= 0 {
		verr := &ValidationError{}
		verr.add(CodeTooSmall, MsgIDNotPositive, fieldID)
		return 0, verr
	}
	return id, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, *ValidationError) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		verr := &ValidationError{}
		verr.add(CodeInvalidType, MsgExpectedObject)
		return nil, verr
	}
	return raw, nil
}

func parseName(value json.RawMessage, verr *ValidationError) (string, bool) {
	var name string
	if isJSONNull(value) || json.Unmarshal(value, &name) != nil {
		verr.add(CodeInvalidType, MsgMustBeString, fieldName)
		return "", false
	}
	length := utf8.RuneCountInString(name)
	if length < 1 {
		verr.add(CodeTooSmall, MsgNameEmpty, fieldName)
		return "", false
	}
	if length > task.MaxNameLength {
		verr.add(CodeTooBig, MsgNameTooLong, fieldName)
		return "", false
	}
	return name, true
}

func parseDone(value json.RawMessage, verr *ValidationError) (bool, bool) {
	var done bool
	if isJSONNull(value) || json.Unmarshal(value, &done) != nil {
		verr.add(CodeInvalidType, MsgMustBeBoolean, fieldDone)
		return false, false
	}
	return done, true
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
