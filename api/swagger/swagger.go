package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Signal API",
        "description": "Learning-signal analytics over student submission history",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Signals", "description": "Per-student and per-class learning signals"},
        {"name": "Performance", "description": "Class, teacher and school aggregates"},
        {"name": "Insights", "description": "Narrative payloads and cache warm-up"},
        {"name": "Observability", "description": "Instrumentation snapshot"}
    ],
    "paths": {
        "/signals/students/{studentId}/prediction": {
            "get": {
                "tags": ["Signals"],
                "summary": "Forecast the next grade of a student",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "History provider unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/students/{studentId}/recommendations": {
            "get": {
                "tags": ["Signals"],
                "summary": "Adaptive study recommendations for a student",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/students/{studentId}/buckets": {
            "get": {
                "tags": ["Signals"],
                "summary": "Grade histogram of a student",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/classes/{classId}/risks": {
            "get": {
                "tags": ["Signals"],
                "summary": "Students at academic risk in a class",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK, meta.partial flags failed students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Roster unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/classes/{classId}/churn": {
            "get": {
                "tags": ["Signals"],
                "summary": "Students whose activity has lapsed",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Roster unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/classes/{classId}/clusters": {
            "get": {
                "tags": ["Signals"],
                "summary": "Performance tiers of a class",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/classes/{classId}/sentiment": {
            "get": {
                "tags": ["Signals"],
                "summary": "Sentiment of the feedback comments of a class",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/sentiment": {
            "post": {
                "tags": ["Signals"],
                "summary": "Classify the sentiment of free text",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SentimentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/classes/{classId}/performance": {
            "get": {
                "tags": ["Performance"],
                "summary": "Aggregate performance of a class",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/teachers/{teacherId}/performance": {
            "get": {
                "tags": ["Performance"],
                "summary": "Aggregate performance across the classes of a teacher",
                "parameters": [
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/schools/{schoolId}/classes": {
            "get": {
                "tags": ["Performance"],
                "summary": "Rank the classes of a school by mean grade",
                "produces": ["application/json", "text/csv"],
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/schools/{schoolId}/teachers": {
            "get": {
                "tags": ["Performance"],
                "summary": "Rank the active teachers of a school by mean grade",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/insights/{kind}/{id}/payload": {
            "get": {
                "tags": ["Insights"],
                "summary": "Structured insight payload for the narrative generator",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["student", "class", "teacher"]},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown kind", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No data for entity", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/insights/{kind}/{id}": {
            "post": {
                "tags": ["Insights"],
                "summary": "Generate a narrative for an entity",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["student", "class", "teacher"]},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Generator failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Generator not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/warmup": {
            "post": {
                "tags": ["Insights"],
                "summary": "Queue background recomputation of class analytics",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WarmupRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Warm-up disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Queue full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/signals/system": {
            "get": {
                "tags": ["Observability"],
                "summary": "Instrumentation snapshot of the signal service",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SentimentRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string", "maxLength": 5000}
            }
        },
        "WarmupRequest": {
            "type": "object",
            "required": ["classIds"],
            "properties": {
                "classIds": {"type": "array", "minItems": 1, "maxItems": 100, "items": {"type": "string"}}
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
