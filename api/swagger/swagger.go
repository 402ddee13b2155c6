package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Hub Event Report API",
        "description": "Event financial reconciliation and report distribution service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reports", "description": "Event report assembly, rendering and distribution"},
        {"name": "Participation", "description": "RSVP aggregation and attendance check-in"}
    ],
    "paths": {
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Save or update an event report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the event organizer", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{eventId}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Fetch the stored report for an event",
                "parameters": [
                    {"name": "eventId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No report saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/render": {
            "post": {
                "tags": ["Reports"],
                "summary": "Render the report as a downloadable document",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveReportRequest"}}
                ],
                "produces": ["application/pdf", "text/html"],
                "responses": {
                    "200": {"description": "Document attachment"},
                    "500": {"description": "Renderer unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/send": {
            "post": {
                "tags": ["Reports"],
                "summary": "Render and distribute the report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/sent": {
            "get": {
                "tags": ["Reports"],
                "summary": "List the caller's sent reports",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/sent/{id}/view": {
            "post": {
                "tags": ["Reports"],
                "summary": "Mark a sent report as viewed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown sent report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/sent/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a sent report via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["application/pdf", "text/html"],
                "responses": {
                    "200": {"description": "Document attachment"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/participation": {
            "get": {
                "tags": ["Participation"],
                "summary": "Participation summary for an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/check-in": {
            "post": {
                "tags": ["Participation"],
                "summary": "Check in to an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Checked in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SaveReportRequest": {
            "type": "object",
            "required": ["event_id", "general_feedback"],
            "properties": {
                "event_id": {"type": "string"},
                "general_feedback": {"type": "string"},
                "report_date": {"type": "string", "example": "2024-03-01"},
                "actual_spending": {
                    "type": "object",
                    "description": "Cost item ID to actual amount (number or numeric string)"
                }
            }
        },
        "SendReportRequest": {
            "type": "object",
            "required": ["event_id", "general_feedback"],
            "properties": {
                "event_id": {"type": "string"},
                "general_feedback": {"type": "string"},
                "report_date": {"type": "string"},
                "actual_spending": {"type": "object"},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
