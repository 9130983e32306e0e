package api

import "github.com/swaggo/swag"

// docTemplate is the OpenAPI 2.0 description of the routes in Routes.
// Keep it in step with the handler annotations.
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
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/convert": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream", "application/json"],
                "produces": ["application/octet-stream", "application/json"],
                "tags": ["convert"],
                "summary": "Convert a replay",
                "parameters": [
                    {"type": "string", "description": "Input format", "name": "from", "in": "query", "required": true},
                    {"type": "string", "description": "Output format", "name": "to", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Converted replay"},
                    "400": {"description": "Bad format or empty body"},
                    "422": {"description": "Replay could not be decoded"}
                }
            }
        },
        "/replays": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "List replays",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream", "application/json"],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "Import a replay",
                "parameters": [
                    {"type": "string", "description": "Input format (default binary)", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Replay could not be decoded"}
                }
            }
        },
        "/replays/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/octet-stream", "application/json"],
                "tags": ["replays"],
                "summary": "Export a replay",
                "parameters": [
                    {"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Output format (default json)", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Encoded replay"},
                    "404": {"description": "Replay not found"}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "Delete a replay",
                "parameters": [
                    {"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Replay not found"}
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "smbreplay REST API",
	Description:      "Convert Super Monkey Ball replays and keep a library of them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
