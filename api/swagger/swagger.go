package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Staff Directory Console",
        "description": "Server-side admin console over the staff directory service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Console",
            "description": "Teacher list, statistics, profile and form interactions"
        },
        {
            "name": "Ops",
            "description": "Liveness, readiness and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/": {
            "get": {
                "tags": [
                    "Console"
                ],
                "summary": "Render the console page",
                "produces": [
                    "text/html",
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "HTML page, or the page envelope when JSON is requested",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    }
                }
            }
        },
        "/console/views/{view}": {
            "get": {
                "tags": [
                    "Console"
                ],
                "summary": "Switch the active view",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "view",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "list",
                            "statistics"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "404": {
                        "description": "Unknown view",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/filters/search": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Set the search filter and reload teachers",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "name": "search",
                        "in": "formData",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    }
                }
            }
        },
        "/console/filters/department": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Set the department filter and reload teachers",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "name": "department",
                        "in": "formData",
                        "type": "string",
                        "description": "Department id, empty for all"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/filters/reset": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Clear both filters and reload teachers",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/new": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Open an empty teacher form",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/{id}": {
            "get": {
                "tags": [
                    "Console"
                ],
                "summary": "Open the teacher profile",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/detail/close": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Close the teacher profile",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/{id}/edit": {
            "get": {
                "tags": [
                    "Console"
                ],
                "summary": "Open the teacher form for an existing record",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/form": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Submit the teacher form",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded",
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TeacherForm"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/form/close": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Close the teacher form",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/{id}/delete": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Ask for delete confirmation",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/teachers/delete/confirm": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "Accept or decline the pending delete",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "name": "confirmed",
                        "in": "formData",
                        "required": true,
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed page",
                        "schema": {
                            "$ref": "#/definitions/PageEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/export/teachers.{format}": {
            "get": {
                "tags": [
                    "Console"
                ],
                "summary": "Download the current teacher table",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Exports disabled",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/session/end": {
            "post": {
                "tags": [
                    "Console"
                ],
                "summary": "End the console session",
                "responses": {
                    "204": {
                        "description": "Session ended"
                    }
                }
            }
        }
    },
    "definitions": {
        "TeacherForm": {
            "type": "object",
            "required": [
                "first_name",
                "last_name",
                "department_id",
                "position"
            ],
            "properties": {
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "patronymic": {
                    "type": "string"
                },
                "department_id": {
                    "type": "string"
                },
                "position": {
                    "type": "string"
                },
                "academic_degree": {
                    "type": "string"
                },
                "academic_title": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "hire_date": {
                    "type": "string"
                }
            }
        },
        "Option": {
            "type": "object",
            "properties": {
                "value": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "selected": {
                    "type": "boolean"
                }
            }
        },
        "Action": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "teacher_id": {
                    "type": "integer"
                }
            }
        },
        "TeacherRow": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "full_name": {
                    "type": "string"
                },
                "position": {
                    "type": "string"
                },
                "department": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "degree": {
                    "type": "string"
                },
                "actions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Action"
                    }
                }
            }
        },
        "TeachersTable": {
            "type": "object",
            "properties": {
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/TeacherRow"
                    }
                },
                "empty": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "Bar": {
            "type": "object",
            "properties": {
                "label": {
                    "type": "string"
                },
                "count": {
                    "type": "integer"
                },
                "width": {
                    "type": "number"
                }
            }
        },
        "Statistics": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "by_department": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Bar"
                    }
                },
                "by_position": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Bar"
                    }
                }
            }
        },
        "TeacherFormView": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "editing_id": {
                    "type": "integer"
                },
                "fields": {
                    "$ref": "#/definitions/TeacherForm"
                },
                "department_options": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Option"
                    }
                }
            }
        },
        "DetailItem": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "secondary": {
                    "type": "string"
                }
            }
        },
        "DetailSection": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/DetailItem"
                    }
                }
            }
        },
        "Detail": {
            "type": "object",
            "properties": {
                "teacher_id": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "fields": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "label": {
                                "type": "string"
                            },
                            "value": {
                                "type": "string"
                            }
                        }
                    }
                },
                "sections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/DetailSection"
                    }
                }
            }
        },
        "Confirm": {
            "type": "object",
            "properties": {
                "teacher_id": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "Notification": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "PageView": {
            "type": "object",
            "properties": {
                "active_view": {
                    "type": "string"
                },
                "nav": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "view": {
                                "type": "string"
                            },
                            "label": {
                                "type": "string"
                            },
                            "active": {
                                "type": "boolean"
                            }
                        }
                    }
                },
                "filters": {
                    "type": "object",
                    "properties": {
                        "search": {
                            "type": "string"
                        },
                        "department": {
                            "type": "string"
                        },
                        "department_options": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/Option"
                            }
                        }
                    }
                },
                "count": {
                    "type": "string"
                },
                "table": {
                    "$ref": "#/definitions/TeachersTable"
                },
                "statistics": {
                    "$ref": "#/definitions/Statistics"
                },
                "form": {
                    "$ref": "#/definitions/TeacherFormView"
                },
                "detail": {
                    "$ref": "#/definitions/Detail"
                },
                "confirm": {
                    "$ref": "#/definitions/Confirm"
                },
                "notifications": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Notification"
                    }
                },
                "exports_enabled": {
                    "type": "boolean"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "remote_status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "PageEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "$ref": "#/definitions/PageView"
                },
                "meta": {
                    "type": "object",
                    "properties": {
                        "session_started": {
                            "type": "boolean"
                        },
                        "sequence_guard": {
                            "type": "boolean"
                        },
                        "processing_time_ms": {
                            "type": "integer"
                        }
                    }
                }
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
