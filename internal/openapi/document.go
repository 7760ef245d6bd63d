package openapi

import (
	"tasksApi/internal/models/task"
	"tasksApi/internal/validation"
)

const (
	Version = "1.0.0"
	Title   = "Tasks API"

	tagTasks = "任务"
	tagEnv   = "环境"
	tagIndex = "首页"
)

type Info struct {
	ServerURL         string
	ServerDescription string
}

// Document собирает описание OpenAPI 3.0.0 всех маршрутов сервиса
func Document(info Info) map[string]any {
	return map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"version":     Version,
			"title":       Title,
			"description": "API for managing tasks",
		},
		"servers": []any{
			map[string]any{
				"url":         info.ServerURL,
				"description": info.ServerDescription,
			},
		},
		"paths": map[string]any{
			"/": map[string]any{
				"get": operation(tagIndex, "首页", "首页", nil, responses{
					"200": jsonResponse("首页", messageSchema()),
				}),
			},
			"/tasks": map[string]any{
				"get": operation(tagTasks, "获取任务列表", "获取所有任务", nil, responses{
					"200": jsonResponse("任务列表", map[string]any{"type": "array", "items": TaskSchema()}),
					"500": jsonResponse("数据库错误", messageSchema()),
				}),
				"post": withBody(operation(tagTasks, "创建任务", "创建一个新任务", nil, responses{
					"200": jsonResponse("创建的任务", TaskSchema()),
					"422": jsonResponse("验证错误", ValidationErrorSchema()),
					"500": jsonResponse("数据库错误", messageSchema()),
				}), "创建任务", InsertTaskSchema()),
			},
			"/tasks/{id}": map[string]any{
				"get": operation(tagTasks, "获取单个任务", "根据 ID 获取任务", idParams(), responses{
					"200": jsonResponse("请求的任务", TaskSchema()),
					"404": jsonResponse("任务不存在", messageSchema()),
					"422": jsonResponse("无效的 id 错误", ValidationErrorSchema()),
				}),
				"patch": withBody(operation(tagTasks, "更新任务", "根据 ID 更新任务", idParams(), responses{
					"200": jsonResponse("更新的任务", TaskSchema()),
					"404": jsonResponse("任务不存在", messageSchema()),
					"422": jsonResponse("验证错误", ValidationErrorSchema()),
				}), "任务更新", PatchTaskSchema()),
				"delete": operation(tagTasks, "删除任务", "根据 ID 删除任务", idParams(), responses{
					"204": map[string]any{"description": "任务已删除"},
					"404": jsonResponse("任务不存在", messageSchema()),
					"422": jsonResponse("无效的 id 错误", ValidationErrorSchema()),
				}),
			},
			"/env-info": map[string]any{
				"get": operation(tagEnv, "获取环境信息", "获取当前环境信息和配置", nil, responses{
					"200": jsonResponse("环境信息", EnvInfoSchema()),
				}),
			},
			"/test-db": map[string]any{
				"get": operation(tagEnv, "测试数据库连接", "测试数据库连接", nil, responses{
					"200": jsonResponse("数据库测试成功", object(map[string]any{
						"success":   map[string]any{"type": "boolean"},
						"message":   map[string]any{"type": "string"},
						"timestamp": map[string]any{"type": "string", "format": "date-time"},
					}, "success", "message", "timestamp")),
					"400": jsonResponse("数据库不可用", object(map[string]any{
						"error": map[string]any{"type": "string"},
					}, "error")),
				}),
			},
		},
	}
}

type responses map[string]any

func operation(tag, summary, description string, params []any, resp responses) map[string]any {
	op := map[string]any{
		"tags":        []any{tag},
		"summary":     summary,
		"description": description,
		"responses":   map[string]any(resp),
	}
	if params != nil {
		op["parameters"] = params
	}
	return op
}

func withBody(op map[string]any, description string, schema map[string]any) map[string]any {
	op["requestBody"] = map[string]any{
		"required":    true,
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
	return op
}

func jsonResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
}

func idParams() []any {
	return []any{
		map[string]any{
			"name":     "id",
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "integer", "minimum": 1},
		},
	}
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, name := range required {
			req[i] = name
		}
		schema["required"] = req
	}
	return schema
}

func messageSchema() map[string]any {
	return object(map[string]any{
		"message": map[string]any{"type": "string"},
	}, "message")
}

func nameSchema() map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "maxLength": task.MaxNameLength}
}

// TaskSchema - форма задачи в ответах
func TaskSchema() map[string]any {
	return object(map[string]any{
		"id":        map[string]any{"type": "integer", "minimum": 1},
		"name":      map[string]any{"type": "string"},
		"done":      map[string]any{"type": "boolean"},
		"createdAt": map[string]any{"type": "string", "format": "date-time"},
		"updatedAt": map[string]any{"type": "string", "format": "date-time"},
	}, "id", "name", "done", "createdAt", "updatedAt")
}

func InsertTaskSchema() map[string]any {
	return object(map[string]any{
		"name": nameSchema(),
		"done": map[string]any{"type": "boolean", "default": false},
	}, "name")
}

func PatchTaskSchema() map[string]any {
	schema := object(map[string]any{
		"name": nameSchema(),
		"done": map[string]any{"type": "boolean"},
	})
	schema["minProperties"] = 1
	return schema
}

// ValidationErrorSchema - тело ответа 422
func ValidationErrorSchema() map[string]any {
	issue := object(map[string]any{
		"code":    map[string]any{"type": "string"},
		"path":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"message": map[string]any{"type": "string"},
	}, "code", "path", "message")

	return object(map[string]any{
		"success": map[string]any{"type": "boolean", "enum": []any{false}},
		"error": object(map[string]any{
			"name":   map[string]any{"type": "string", "enum": []any{validation.ErrorName}},
			"issues": map[string]any{"type": "array", "items": issue, "minItems": 1},
		}, "name", "issues"),
	}, "success", "error")
}

func EnvInfoSchema() map[string]any {
	return object(map[string]any{
		"runtime":     map[string]any{"type": "string", "enum": []any{"node", "cloudflare-workers"}},
		"nodeEnv":     map[string]any{"type": "string"},
		"logLevel":    map[string]any{"type": "string"},
		"hasDatabase": map[string]any{"type": "boolean"},
		"features": object(map[string]any{
			"port":                 map[string]any{"type": "string"},
			"cloudflareConfigured": map[string]any{"type": "boolean"},
		}, "cloudflareConfigured"),
	}, "runtime", "nodeEnv", "logLevel", "hasDatabase", "features")
}
