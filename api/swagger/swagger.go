package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kaiyo Credit Progress API",
        "description": "Tracks completed courses and evaluates them against curriculum credit rules.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Profile", "description": "Student enrollment profile"},
        {"name": "Courses", "description": "Completed course records"},
        {"name": "Progress", "description": "Milestone credit evaluation"},
        {"name": "Ops", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {"get": {"tags": ["Ops"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"tags": ["Ops"], "summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unreachable or no rules loaded"}}}},
        "/metrics": {"get": {"tags": ["Ops"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/categories": {"get": {"tags": ["Courses"], "summary": "List course categories", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}},
        "/api/v1/ops/metrics": {"get": {"tags": ["Ops"], "summary": "System metrics snapshot", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SystemMetrics"}}, "403": {"description": "Admin only"}}}},
        "/api/v1/students/{studentId}/profile": {
            "parameters": [{"$ref": "#/parameters/studentId"}],
            "get": {"tags": ["Profile"], "summary": "Get profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentProfile"}}, "412": {"description": "Profile missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Profile"], "summary": "Create or replace profile", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}},
            "delete": {"tags": ["Profile"], "summary": "Delete profile", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/api/v1/students/{studentId}/terms": {
            "parameters": [{"$ref": "#/parameters/studentId"}],
            "get": {"tags": ["Profile"], "summary": "Selectable term labels", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/students/{studentId}/courses": {
            "parameters": [{"$ref": "#/parameters/studentId"}],
            "get": {"tags": ["Courses"], "summary": "List course records", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "category", "type": "string"}, {"in": "query", "name": "term", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Courses"], "summary": "Add a course record", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRecordRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}},
            "delete": {"tags": ["Courses"], "summary": "Delete every course record", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/students/{studentId}/courses/batch": {
            "parameters": [{"$ref": "#/parameters/studentId"}],
            "post": {"tags": ["Courses"], "summary": "Add several course records", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"records": {"type": "array", "items": {"$ref": "#/definitions/CourseRecordRequest"}}}}}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/students/{studentId}/courses/{id}": {
            "parameters": [{"$ref": "#/parameters/studentId"}, {"in": "path", "name": "id", "required": true, "type": "string"}],
            "put": {"tags": ["Courses"], "summary": "Update a course record", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRecordRequest"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["Courses"], "summary": "Delete a course record", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}}
        },
        "/api/v1/students/{studentId}/courses/{id}/over-credit": {
            "parameters": [{"$ref": "#/parameters/studentId"}, {"in": "path", "name": "id", "required": true, "type": "string"}, {"$ref": "#/parameters/milestone"}],
            "post": {"tags": ["Progress"], "summary": "Classify a record as over-credit", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Record or rules not found"}}}
        },
        "/api/v1/students/{studentId}/progress": {
            "parameters": [{"$ref": "#/parameters/studentId"}, {"$ref": "#/parameters/milestone"}],
            "get": {"tags": ["Progress"], "summary": "Evaluate progress toward a milestone", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Progress"}}, "404": {"description": "No rules for program"}, "412": {"description": "Profile missing"}}}
        },
        "/api/v1/students/{studentId}/progress/milestones": {
            "parameters": [{"$ref": "#/parameters/studentId"}],
            "get": {"tags": ["Progress"], "summary": "Evaluate every milestone", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/students/{studentId}/progress/export": {
            "parameters": [{"$ref": "#/parameters/studentId"}, {"$ref": "#/parameters/milestone"}, {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}],
            "get": {"tags": ["Progress"], "summary": "Download a progress report", "produces": ["text/csv", "application/pdf"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Attachment"}}}
        }
    },
    "parameters": {
        "studentId": {"in": "path", "name": "studentId", "required": true, "type": "string"},
        "milestone": {"in": "query", "name": "milestone", "type": "string", "enum": ["Grade2", "Grade3", "Grade4", "Graduation"]}
    },
    "definitions": {
        "ProfileRequest": {
            "type": "object",
            "properties": {
                "enrollment_year": {"type": "integer"},
                "current_grade": {"type": "integer", "minimum": 1, "maximum": 4},
                "department": {"type": "string"}
            }
        },
        "StudentProfile": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "enrollment_year": {"type": "integer"},
                "current_grade": {"type": "integer"},
                "department": {"type": "string"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "CourseRecordRequest": {
            "type": "object",
            "properties": {
                "course_name": {"type": "string"},
                "credits": {"type": "integer"},
                "difficulty": {"type": "string", "enum": ["H", "M", "E"]},
                "category": {"type": "string"},
                "term": {"type": "string"}
            }
        },
        "Evaluation": {
            "type": "object",
            "properties": {
                "milestone": {"type": "string"},
                "total_required_credits": {"type": "integer"},
                "counted_credits": {"type": "integer"},
                "remaining_total": {"type": "integer"},
                "remaining_by_category": {"type": "object", "additionalProperties": {"type": "integer"}},
                "remaining_by_composite": {"type": "object", "additionalProperties": {"type": "integer"}},
                "missing_mandatory_courses": {"type": "array", "items": {"type": "string"}},
                "satisfied": {"type": "boolean"}
            }
        },
        "Progress": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "enrollment_year": {"type": "integer"},
                "department": {"type": "string"},
                "current_grade": {"type": "integer"},
                "evaluation": {"$ref": "#/definitions/Evaluation"},
                "record_count": {"type": "integer"},
                "generated_at": {"type": "string", "format": "date-time"}
            }
        },
        "SystemMetrics": {
            "type": "object",
            "properties": {
                "cache_hit_ratio": {"type": "number"},
                "requests_total": {"type": "number"},
                "evaluations_total": {"type": "number"},
                "goroutines": {"type": "integer"}
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
