// Package docs registers the swagger document served under /swagger/.
// It follows the layout swag emits but is maintained by hand; keep it in
// step with the handler annotations in adapters/http.
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
        "/v1/payout-structures": {
            "post": {
                "description": "Starts an editing session with a total reward and optional initial rows.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Create a payout structure",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"description": "Initial structure", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CreateStructureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.StructureResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/payout-structures/{structure_id}": {
            "get": {
                "description": "Returns rows, total reward, percent sum and validation issues.",
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Get a payout structure",
                "parameters": [
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StructureResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Delete a payout structure",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.DeleteResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/payout-structures/{structure_id}/total-reward": {
            "put": {
                "description": "Recomputes the currency amount of every row; percentages are kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Change the total reward",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true},
                    {"description": "Raw total reward", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ValueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.TotalRewardResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/payout-structures/{structure_id}/rows": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Append a row",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true},
                    {"description": "Initial row values", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/http.RowInputDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.RowAppendResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/payout-structures/{structure_id}/rows/{row_index}": {
            "delete": {
                "description": "Later rows shift down by one index.",
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Remove a row",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Row index", "name": "row_index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StructureResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/payout-structures/{structure_id}/rows/{row_index}/{field}": {
            "put": {
                "description": "Writes the edited field and recomputes its counterpart. A conversion that cannot be computed is reported in condition.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Edit one row field",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Row index", "name": "row_index", "in": "path", "required": true},
                    {"type": "string", "description": "recipient_count, percent_amount or currency_amount", "name": "field", "in": "path", "required": true},
                    {"description": "Raw value", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ValueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.RowEditResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Leaves the field non-numeric; nothing is recomputed.",
                "produces": ["application/json"],
                "tags": ["payout-structure-service"],
                "summary": "Clear one row field",
                "parameters": [
                    {"type": "string", "description": "Operator id", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Structure id", "name": "structure_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Row index", "name": "row_index", "in": "path", "required": true},
                    {"type": "string", "description": "recipient_count, percent_amount or currency_amount", "name": "field", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StructureResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "http.ValueRequest": {
            "type": "object",
            "properties": {
                "value": {"type": "string"}
            }
        },
        "http.RowInputDTO": {
            "type": "object",
            "properties": {
                "percent_amount": {"type": "string"},
                "recipient_count": {"type": "string"}
            }
        },
        "http.CreateStructureRequest": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/http.RowInputDTO"}},
                "total_reward": {"type": "string"}
            }
        },
        "http.RowDTO": {
            "type": "object",
            "properties": {
                "currency_amount": {"type": "string"},
                "percent_amount": {"type": "string"},
                "recipient_count": {"type": "string"},
                "row_index": {"type": "integer"}
            }
        },
        "http.FieldIssueDTO": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"},
                "row_index": {"type": "integer"}
            }
        },
        "http.ValidationDTO": {
            "type": "object",
            "properties": {
                "issues": {"type": "array", "items": {"$ref": "#/definitions/http.FieldIssueDTO"}},
                "sum_is_complete": {"type": "boolean"},
                "valid": {"type": "boolean"}
            }
        },
        "http.StructureDTO": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "owner_id": {"type": "string"},
                "percent_sum": {"type": "string"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/http.RowDTO"}},
                "structure_id": {"type": "string"},
                "total_reward": {"type": "string"},
                "updated_at": {"type": "string"},
                "validation": {"$ref": "#/definitions/http.ValidationDTO"}
            }
        },
        "http.StructureResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/http.StructureDTO"},
                "status": {"type": "string"}
            }
        },
        "http.ReconciliationDTO": {
            "type": "object",
            "properties": {
                "condition": {"type": "string"},
                "derived_field": {"type": "string"},
                "edited_field": {"type": "string"},
                "percent_sum": {"type": "string"},
                "row": {"$ref": "#/definitions/http.RowDTO"}
            }
        },
        "http.RowEditResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/http.ReconciliationDTO"},
                "status": {"type": "string"}
            }
        },
        "http.TotalRewardDTO": {
            "type": "object",
            "properties": {
                "current": {"type": "string"},
                "percent_sum": {"type": "string"},
                "previous": {"type": "string"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/http.RowDTO"}},
                "skipped_rows": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "http.TotalRewardResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/http.TotalRewardDTO"},
                "status": {"type": "string"}
            }
        },
        "http.RowAppendResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "percent_sum": {"type": "string"},
                        "row": {"$ref": "#/definitions/http.RowDTO"}
                    }
                },
                "status": {"type": "string"}
            }
        },
        "http.DeleteResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo is registered with swag under the default instance name.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Reward Split API",
	Description:      "Payout structure editing with percent and currency reconciliation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
