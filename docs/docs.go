// Package docs registers the OpenAPI document served under /swagger/*.
// It is maintained by hand in the swag layout and mirrors the @Router
// annotations in internal/http/handler and the @title block in cmd/api.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/stories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "List or search stories",
                "parameters": [
                    {"type": "string", "description": "case-insensitive substring of title or writers", "name": "search", "in": "query"},
                    {"type": "string", "description": "exact category", "name": "category", "in": "query"},
                    {"type": "string", "description": "exact status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Story"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Create a story",
                "parameters": [
                    {"description": "story", "name": "story", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.StoryInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Story"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/stories/upload/cover": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["covers"],
                "summary": "Upload a cover image",
                "parameters": [
                    {"type": "file", "description": "cover image", "name": "cover", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.CoverUpload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/stories/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Get a story",
                "parameters": [
                    {"type": "string", "description": "story id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Story"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Replace a story",
                "parameters": [
                    {"type": "string", "description": "story id", "name": "id", "in": "path", "required": true},
                    {"description": "story", "name": "story", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.StoryInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Story"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Delete a story",
                "parameters": [
                    {"type": "string", "description": "story id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/stories/{id}/chapters": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Append a chapter",
                "parameters": [
                    {"type": "string", "description": "story id", "name": "id", "in": "path", "required": true},
                    {"description": "chapter", "name": "chapter", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.ChapterInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Story"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/uploads/{filename}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["covers"],
                "summary": "Fetch an uploaded cover",
                "parameters": [
                    {"type": "string", "description": "generated filename", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "model.Chapter": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Story": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/model.Chapter"}},
                "cover": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "keyword": {"type": "array", "items": {"type": "string"}},
                "lastUpdated": {"type": "string"},
                "status": {"type": "string"},
                "synopsis": {"type": "string"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"},
                "writers": {"type": "string"}
            }
        },
        "service.ChapterInput": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "service.CoverUpload": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "service.StoryInput": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/service.ChapterInput"}},
                "cover": {"type": "string"},
                "keyword": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "synopsis": {"type": "string"},
                "title": {"type": "string"},
                "writers": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Story API",
	Description:      "CRUD for serialized stories with chapters and cover uploads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
