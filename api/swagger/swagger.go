package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutor Scheduling API",
        "description": "Appointment scheduling for tutors and students",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Appointments", "description": "Tutor-owned sessions"},
        {"name": "Bookings", "description": "Student slot reservations"},
        {"name": "Exports", "description": "Schedule sheets"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/api/v1/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List sessions, optionally for one tutor",
                "parameters": [
                    {"name": "tutor_id", "in": "query", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentListEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Open a tutoring session",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/AppointmentEnvelope"}},
                    "400": {"description": "VALIDATION_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "SCHEDULE_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/appointments/mine": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List the sessions the caller has booked",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentListEnvelope"}}
                }
            }
        },
        "/api/v1/appointments/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a schedule sheet",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "required": false},
                    {"name": "tutor_id", "in": "query", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "VALIDATION_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "FEATURE_DISABLED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/appointments/{id}": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Get one session",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Appointments"],
                "summary": "Cancel a session owned by the calling tutor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentEnvelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/appointments/{id}/book": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a slot in a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentEnvelope"}},
                    "400": {"description": "INVALID_STATE, DUPLICATE_BOOKING or CAPACITY_REACHED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "SCHEDULE_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Bookings"],
                "summary": "Release the caller's slot before the session starts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentEnvelope"}},
                    "400": {"description": "INVALID_STATE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Bookings"],
                "summary": "Move the caller's booking to another session",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwitchBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppointmentEnvelope"}},
                    "400": {"description": "Validation or booking rule failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "SCHEDULE_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/appointments/{id}/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Rate a booked session",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/FeedbackEnvelope"}},
                    "400": {"description": "VALIDATION_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Feedback"],
                "summary": "List the feedback left on a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FeedbackListEnvelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/appointments/{id}/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List the audit trail of a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuditListEnvelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND or FEATURE_DISABLED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Appointment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tutor_id": {"type": "string"},
                "name": {"type": "string"},
                "start_time": {"type": "string", "example": "2025-12-01 09:00:00"},
                "end_time": {"type": "string", "example": "2025-12-01 10:00:00"},
                "place": {"type": "string"},
                "max_slot": {"type": "integer"},
                "status": {"type": "string", "enum": ["OPEN", "CANCELLED"]},
                "current_slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateAppointmentRequest": {
            "type": "object",
            "required": ["name", "start_time", "end_time", "place"],
            "properties": {
                "name": {"type": "string"},
                "start_time": {"type": "string", "example": "2025-12-01 09:00:00"},
                "end_time": {"type": "string", "example": "2025-12-01 10:00:00"},
                "place": {"type": "string"},
                "max_slot": {"type": "integer", "default": 1}
            }
        },
        "SwitchBookingRequest": {
            "type": "object",
            "required": ["target_id"],
            "properties": {
                "target_id": {"type": "string"}
            }
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "comment": {"type": "string", "maxLength": 2000}
            }
        },
        "Feedback": {
            "type": "object",
            "properties": {
                "appointment_id": {"type": "string"},
                "student_id": {"type": "string"},
                "rating": {"type": "integer"},
                "comment": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "AuditEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "event_type": {"type": "string"},
                "appointment_id": {"type": "string"},
                "actor_id": {"type": "string"},
                "payload": {"type": "object"},
                "occurred_at": {"type": "string", "format": "date-time"}
            }
        },
        "ConflictDetail": {
            "type": "object",
            "properties": {
                "scope": {"type": "string", "enum": ["TUTOR", "STUDENT"]},
                "appointment_id": {"type": "string"},
                "appointment_name": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
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
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object", "properties": {"conflict": {"$ref": "#/definitions/ConflictDetail"}}}
            }
        },
        "AppointmentEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Appointment"}
            }
        },
        "AppointmentListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Appointment"}},
                "meta": {"type": "object", "properties": {"count": {"type": "integer"}}}
            }
        },
        "FeedbackEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Feedback"}
            }
        },
        "FeedbackListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Feedback"}},
                "meta": {"type": "object", "properties": {"count": {"type": "integer"}}}
            }
        },
        "AuditListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/AuditEntry"}},
                "meta": {"type": "object", "properties": {"count": {"type": "integer"}}}
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
