// Package docs registers the OpenAPI document served by /swagger when
// SWAGGER_ENABLED is set. The annotations on the handlers are the source;
// regenerate with `swag init -g internal/http/router.go -o docs`.
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
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "in": "header", "name": "Cookie"}
    },
    "security": [{"SessionCookie": []}],
    "paths": {
        "/auth/login": {
            "post": {
                "security": [],
                "tags": ["Auth"], "summary": "Log in", "operationId": "login",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Misconfigured or store error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [],
                "tags": ["Auth"], "summary": "Log out", "operationId": "logout",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuccessResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"], "summary": "Current identity", "operationId": "me",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.MeResponse"}}
                }
            }
        },
        "/parts": {
            "get": {
                "tags": ["Parts"], "summary": "List parts (paginated)", "operationId": "listParts",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "minimum": 1, "name": "page", "in": "query"},
                    {"type": "integer", "minimum": 1, "maximum": 200, "name": "limit", "in": "query"},
                    {"type": "string", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.PartPage"}},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Parts"], "summary": "Create a part", "operationId": "createPart",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.PartInput"}}
                ],
                "responses": {
                    "200": {"description": "Replayed", "schema": {"$ref": "#/definitions/handlers.PartResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.PartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/parts/search": {
            "get": {
                "tags": ["Parts"], "summary": "Search parts", "operationId": "searchParts",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.PartPage"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/parts/out-of-stock": {
            "get": {
                "tags": ["Parts"], "summary": "Out-of-stock parts", "operationId": "outOfStock",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "supplier", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.OutOfStockPage"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/parts/check-number": {
            "get": {
                "tags": ["Parts"], "summary": "Check whether a part number is taken", "operationId": "checkPartNumber",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "partNumber", "in": "query", "required": true},
                    {"type": "string", "name": "excludeId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.PartNumberCheck"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/parts/order-sheet": {
            "post": {
                "tags": ["Parts"], "summary": "Download a supplier order sheet", "operationId": "orderSheet",
                "consumes": ["application/json"], "produces": ["text/plain", "application/pdf"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.OrderSheetRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/parts/{id}": {
            "get": {
                "tags": ["Parts"], "summary": "Get a part", "operationId": "getPart",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["Parts"], "summary": "Replace a part", "operationId": "updatePart",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.PartInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.MutationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Parts"], "summary": "Delete a part", "operationId": "deletePart",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.MutationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/upload/image": {
            "post": {
                "tags": ["Upload"], "summary": "Upload an image", "operationId": "uploadImage",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "default": "inventory", "name": "folder", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UploadResponse"}},
                    "400": {"description": "Missing, non-image or too-large file", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"], "summary": "Inventory totals and recent activity", "operationId": "dashboardStats",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.DashboardStats"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Activity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["add", "edit", "delete", "quantity_change"]},
                "partId": {"type": "string"},
                "partName": {"type": "string"},
                "partNumber": {"type": "string"},
                "details": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Part": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "partName": {"type": "string"},
                "partNumber": {"type": "string"},
                "code": {"type": "string"},
                "brand": {"type": "string"},
                "quantity": {"type": "integer"},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "unitOfMeasure": {"type": "string"},
                "supplier": {"type": "string"},
                "buyingPrice": {"type": "number"},
                "mrp": {"type": "number"},
                "billingDate": {"type": "string"},
                "partImages": {"type": "array", "items": {"type": "string"}},
                "billImages": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "part not found"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/services.FieldError"}}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "admin"},
                "password": {"type": "string"}
            }
        },
        "handlers.LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/services.Identity"},
                "expiresAt": {"type": "string"}
            }
        },
        "handlers.MeResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "user": {"$ref": "#/definitions/services.Identity"}
            }
        },
        "handlers.OrderSheetRequest": {
            "type": "object",
            "required": ["ids"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "format": {"type": "string", "enum": ["txt", "pdf"]}
            }
        },
        "handlers.PartResponse": {
            "type": "object",
            "properties": {"part": {"$ref": "#/definitions/domain.Part"}}
        },
        "handlers.SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "handlers.UploadResponse": {
            "type": "object",
            "properties": {"url": {"type": "string"}}
        },
        "services.DashboardStats": {
            "type": "object",
            "properties": {
                "totalParts": {"type": "integer"},
                "totalValue": {"type": "number"},
                "totalValueDisplay": {"type": "string", "example": "₹2,125.00"},
                "outOfStockCount": {"type": "integer"},
                "activities": {"$ref": "#/definitions/services.ActivityPage"}
            }
        },
        "services.ActivityPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Activity"}},
                "pagination": {"$ref": "#/definitions/services.Pagination"}
            }
        },
        "services.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "services.Identity": {
            "type": "object",
            "properties": {"username": {"type": "string"}}
        },
        "services.MutationResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "imagesDeleted": {"type": "integer"}
            }
        },
        "services.OutOfStockPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Part"}},
                "suppliers": {"type": "array", "items": {"type": "string"}},
                "pagination": {"$ref": "#/definitions/services.Pagination"}
            }
        },
        "services.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "services.PartInput": {
            "type": "object",
            "required": ["partName", "partNumber", "quantity", "location", "unitOfMeasure"],
            "properties": {
                "partName": {"type": "string"},
                "partNumber": {"type": "string"},
                "code": {"type": "string", "pattern": "^[A-Z]*$"},
                "brand": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 0},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "unitOfMeasure": {"type": "string"},
                "supplier": {"type": "string"},
                "buyingPrice": {"type": "number", "minimum": 0},
                "mrp": {"type": "number", "minimum": 0},
                "billingDate": {"type": "string", "example": "2025-01-31"},
                "partImages": {"type": "array", "items": {"type": "string"}},
                "billImages": {"type": "array", "items": {"type": "string"}}
            }
        },
        "services.PartNumberCheck": {
            "type": "object",
            "properties": {
                "exists": {"type": "boolean"},
                "part": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "string"},
                        "partName": {"type": "string"},
                        "partNumber": {"type": "string"}
                    }
                }
            }
        },
        "services.PartPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Part"}},
                "pagination": {"$ref": "#/definitions/services.Pagination"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "StockRakh API",
	Description:      "Auto-parts inventory: parts, stock levels, out-of-stock reordering and images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
