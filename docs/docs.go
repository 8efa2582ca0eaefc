// Package docs holds the generated OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "Server is up"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Database reachable"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/google/login": {
            "get": {
                "tags": ["auth"],
                "summary": "Start Google sign-in",
                "responses": {
                    "302": {"description": "Redirect to the Google consent page"}
                }
            }
        },
        "/auth/google/callback": {
            "get": {
                "tags": ["auth"],
                "summary": "Finish Google sign-in",
                "parameters": [
                    {"type": "string", "description": "OAuth state", "name": "state", "in": "query", "required": true},
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/ports.AuthResponse"}},
                    "302": {"description": "Signed in, redirect to the dashboard"},
                    "400": {"description": "State mismatch or missing code"},
                    "401": {"description": "Sign-in failed"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "Signed out", "schema": {"$ref": "#/definitions/ports.MessageResponse"}},
                    "303": {"description": "Signed out, redirect"}
                }
            }
        },
        "/api/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.User"}},
                    "401": {"description": "Not signed in"}
                }
            }
        },
        "/api/v1/lists": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lists"],
                "summary": "Lists",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.List"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lists"],
                "summary": "Create a list",
                "parameters": [
                    {"description": "List", "name": "list", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.CreateListRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.List"}},
                    "400": {"description": "Name missing"}
                }
            }
        },
        "/api/v1/lists/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lists"],
                "summary": "Get a list",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.List"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/lists/{id}/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Tasks in a list",
                "parameters": [
                    {"type": "string", "description": "List ID", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "Include completed tasks", "name": "include_completed", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.TasksResponse"}},
                    "502": {"description": "Storage failure", "schema": {"$ref": "#/definitions/ports.TasksResponse"}}
                }
            }
        },
        "/api/v1/categories/{category}/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Tasks by category",
                "parameters": [
                    {"enum": ["today", "scheduled", "all", "flagged", "completed"], "type": "string", "description": "Category", "name": "category", "in": "path", "required": true},
                    {"type": "string", "description": "IANA time zone for today", "name": "tz", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.TasksResponse"}},
                    "400": {"description": "Unknown category or time zone"},
                    "502": {"description": "Storage failure", "schema": {"$ref": "#/definitions/ports.TasksResponse"}}
                }
            }
        },
        "/api/v1/unscheduled/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Unscheduled tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.TasksResponse"}},
                    "502": {"description": "Storage failure", "schema": {"$ref": "#/definitions/ports.TasksResponse"}}
                }
            }
        },
        "/api/v1/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Dashboard counts",
                "parameters": [
                    {"type": "string", "description": "IANA time zone for today", "name": "tz", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.SummaryCounts"}},
                    "502": {"description": "Storage failure"}
                }
            }
        },
        "/api/v1/tasks": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [
                    {"description": "Task", "name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ports.CreatedResponse"}},
                    "400": {"description": "Title missing"},
                    "404": {"description": "List not found"}
                }
            }
        },
        "/api/v1/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Task"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/tasks/{id}/completion": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Set task completion",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {"description": "Completion state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.SetCompletionRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/tasks/{id}/flag": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Set task flag",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {"description": "Flag state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.SetFlagRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["import"],
                "summary": "Import lists and tasks",
                "consumes": ["application/yaml"],
                "responses": {
                    "201": {"description": "Imported", "schema": {"$ref": "#/definitions/ports.ImportResult"}},
                    "400": {"description": "Invalid document, nothing written"},
                    "413": {"description": "Document larger than 1 MiB, nothing written"}
                }
            }
        }
    },
    "definitions": {
        "entities.List": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "entities.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "list_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "completed": {"type": "boolean"},
                "flagged": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "entities.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "profile_image": {"type": "string"},
                "created_at": {"type": "string"},
                "last_login_at": {"type": "string"}
            }
        },
        "entities.SummaryCounts": {
            "type": "object",
            "properties": {
                "today": {"type": "integer"},
                "scheduled": {"type": "integer"},
                "all": {"type": "integer"},
                "flagged": {"type": "integer"},
                "completed": {"type": "integer"}
            }
        },
        "ports.AuthResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/entities.User"}
            }
        },
        "ports.CreateListRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 200}
            }
        },
        "ports.CreateTaskRequest": {
            "type": "object",
            "required": ["list_id", "title"],
            "properties": {
                "list_id": {"type": "string"},
                "title": {"type": "string", "maxLength": 500},
                "description": {"type": "string", "maxLength": 2000},
                "due_date": {"type": "string"},
                "flagged": {"type": "boolean"}
            }
        },
        "ports.SetCompletionRequest": {
            "type": "object",
            "required": ["completed"],
            "properties": {
                "completed": {"type": "boolean"}
            }
        },
        "ports.SetFlagRequest": {
            "type": "object",
            "required": ["flagged"],
            "properties": {
                "flagged": {"type": "boolean"}
            }
        },
        "ports.TasksResponse": {
            "type": "object",
            "properties": {
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/entities.Task"}},
                "message": {"type": "string"}
            }
        },
        "ports.CreatedResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "ports.ImportResult": {
            "type": "object",
            "properties": {
                "lists": {"type": "integer"},
                "tasks": {"type": "integer"}
            }
        },
        "ports.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Remindify API",
	Description:      "Reminders-style task lists with smart dashboard categories",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
