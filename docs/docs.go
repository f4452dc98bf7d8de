// Package docs holds the swagger document served on /swagger/*
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
        "/tasks": {
            "get": {
                "description": "Get every task in storage order, newest first",
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List tasks",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/entities.Task"}
                        }
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [
                    {
                        "description": "Task data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ports.AddTaskRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/entities.Task"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            }
        },
        "/tasks/board": {
            "get": {
                "description": "Pending tasks by deadline and completed tasks by creation time",
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Task board",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.BoardResponse"}
                    }
                }
            }
        },
        "/tasks/{id}": {
            "put": {
                "description": "Replace text and due date; an absent dueDate clears the deadline",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a task",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Task data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ports.UpdateTaskRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/entities.Task"}
                    },
                    "204": {
                        "description": "Unknown task, nothing changed"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/http.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/tasks/{id}/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Toggle completion",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Task ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/entities.Task"}
                    },
                    "204": {
                        "description": "Unknown task, nothing changed"
                    }
                }
            }
        },
        "/sync": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Sync state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ports.SyncStatusResponse"}
                    }
                }
            },
            "post": {
                "description": "Cosmetic only, nothing leaves the machine. Returns 409 while a sync is running.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Start a simulated sync",
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {"$ref": "#/definitions/ports.SyncStatusResponse"}
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {"$ref": "#/definitions/ports.SyncStatusResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "entities.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "completed": {"type": "boolean"},
                "createdAt": {"type": "integer", "description": "epoch milliseconds"},
                "dueDate": {"type": "integer", "description": "epoch milliseconds"}
            }
        },
        "entities.Urgency": {
            "type": "object",
            "properties": {
                "level": {
                    "type": "string",
                    "enum": ["overdue", "due_today", "due_soon", "upcoming"]
                },
                "color": {
                    "type": "string",
                    "enum": ["red", "yellow", "orange", "gray"]
                },
                "days": {"type": "integer"},
                "dueAt": {"type": "string", "format": "date-time"}
            }
        },
        "services.TaskView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "completed": {"type": "boolean"},
                "createdAt": {"type": "integer"},
                "dueDate": {"type": "integer"},
                "urgency": {"$ref": "#/definitions/entities.Urgency"}
            }
        },
        "http.BoardResponse": {
            "type": "object",
            "properties": {
                "pending": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/services.TaskView"}
                },
                "completed": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/services.TaskView"}
                },
                "empty": {"type": "boolean"},
                "generatedAt": {"type": "string", "format": "date-time"},
                "message": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "ports.AddTaskRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string"},
                "dueDate": {"type": "integer"}
            }
        },
        "ports.UpdateTaskRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string"},
                "dueDate": {"type": "integer"}
            }
        },
        "ports.SyncStatusResponse": {
            "type": "object",
            "properties": {
                "state": {
                    "type": "string",
                    "enum": ["idle", "syncing", "synced"]
                },
                "started": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Todo API",
	Description:      "Local single-user task tracker",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
