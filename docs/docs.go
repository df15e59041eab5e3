// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/main.go
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
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/auth/sign-up": {"post": {"tags": ["auth"], "summary": "Create an API user", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Username taken"}}}},
        "/auth/sign-in": {"post": {"tags": ["auth"], "summary": "Issue a bearer token", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/v1/stove/state": {"get": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Cached stove snapshot", "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.Reading"}}}, "503": {"description": "No data"}}}},
        "/api/v1/stove/refresh": {"post": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Refresh stove data", "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.Reading"}}}, "502": {"description": "Update failed"}, "503": {"description": "No data"}}}},
        "/api/v1/stove/readings": {"get": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Persisted readings", "responses": {"200": {"description": "count, readings"}}}},
        "/api/v1/stove/on": {"post": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Turn the stove on", "responses": {"202": {"description": "Accepted"}}}},
        "/api/v1/stove/off": {"post": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Turn the stove off", "responses": {"202": {"description": "Accepted"}}}},
        "/api/v1/stove/unblock": {"post": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Clear a stove block", "responses": {"202": {"description": "Accepted"}}}},
        "/api/v1/stove/value": {"post": {"security": [{"BearerAuth": []}], "tags": ["stove"], "summary": "Write a data point", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SetValueRequest"}}], "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}}},
        "/api/v1/logs": {"get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List stove events", "parameters": [{"in": "query", "name": "from", "type": "string"}, {"in": "query", "name": "to", "type": "string"}, {"in": "query", "name": "type", "type": "string", "enum": ["STALE", "TIMEOUT", "ERROR", "COMMAND"]}], "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}}}}
    },
    "definitions": {
        "handlers.authCredentials": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "handlers.SetValueRequest": {"type": "object", "required": ["point_id", "value"], "properties": {"point_id": {"type": "string", "example": "01000"}, "value": {"type": "integer", "example": 7}}},
        "models.Reading": {"type": "object", "properties": {"value": {"type": "integer"}, "type": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "4heat stove API",
	Description:      "Polls a 4heat stove controller and relays commands to it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
