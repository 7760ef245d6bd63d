package validation

import (
	"strings"
)

const (
	MsgRequired       = "必填"
	MsgMustBeString   = "必须是字符串"
	MsgMustBeBoolean  = "必须是布尔值"
	MsgNameEmpty      = "名称不能为空"
	MsgNameTooLong    = "名称不能超过500个字符"
	MsgNoUpdates      = "未提供更新"
	MsgExpectedNumber = "期望数字，收到 NaN"
	MsgIDNotPositive  = "ID必须是正整数"
	MsgExpectedObject = "期望对象"
)

const (
	CodeInvalidType    = "invalid_type"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeInvalidUpdates = "无效的更新"
)

const ErrorName = "ValidationError"

// Issue - одна проблема входных данных, path пустой если проблема не в конкретном поле
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if len(issue.Path) == 0 {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, strings.Join(issue.Path, ".")+": "+issue.Message)
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(code string, message string, path ...string) {
	if path == nil {
		path = []string{}
	}
	e.Issues = append(e.Issues, Issue{Code: code, Path: path, Message: message})
}

// NoUpdatesError - патч без единого известного поля.
// Через Unwrap доступен как обычная *ValidationError
type NoUpdatesError struct {
	ValidationError
}

func (e *NoUpdatesError) Unwrap() error {
	return &e.ValidationError
}

func newNoUpdatesError() *NoUpdatesError {
	err := &NoUpdatesError{}
	err.add(CodeInvalidUpdates, MsgNoUpdates)
	return err
}
