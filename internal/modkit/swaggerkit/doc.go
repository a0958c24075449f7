package swaggerkit

// openAPI is kept in step with the handler annotations by hand
const openAPI = `{
  "swagger": "2.0",
  "info": {
    "title": "codg API",
    "description": "Cone of direct gaze sessions and estimates",
    "version": "1.0"
  },
  "basePath": "/api/v1",
  "schemes": ["http", "https"],
  "consumes": ["application/json"],
  "produces": ["application/json"],
  "paths": {
    "/meta/health": {
      "get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}}
    },
    "/meta/ready": {
      "get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}}
    },
    "/meta/version": {
      "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}}
    },
    "/meta/engine": {
      "get": {"tags": ["Meta"], "summary": "Estimator domain, thresholds and root policies", "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}}
    },
    "/sessions": {
      "post": {
        "tags": ["Sessions"], "summary": "Open a session",
        "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/sessions.CreateInput"}}],
        "responses": {"201": {"description": "created", "schema": {"$ref": "#/definitions/envelope"}}, "400": {"description": "validation", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    },
    "/sessions/{id}": {
      "get": {
        "tags": ["Sessions"], "summary": "Get a session",
        "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
        "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}, "404": {"description": "not found", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    },
    "/sessions/{id}/trials": {
      "get": {
        "tags": ["Sessions"], "summary": "List a session's trials",
        "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
        "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}
      },
      "post": {
        "tags": ["Sessions"], "summary": "Append answered trials",
        "description": "Indexes already stored for the session are skipped",
        "parameters": [
          {"in": "path", "name": "id", "required": true, "type": "string"},
          {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/sessions.AppendInput"}}
        ],
        "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    },
    "/sessions/participants/{pid}/trials": {
      "get": {
        "tags": ["Sessions"], "summary": "List a participant's trials",
        "parameters": [
          {"in": "path", "name": "pid", "required": true, "type": "string"},
          {"in": "query", "name": "face", "type": "string"}
        ],
        "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    },
    "/estimates": {
      "post": {
        "tags": ["Estimates"], "summary": "Estimate posted judgements",
        "description": "Runs the estimator over the posted trials; nothing is stored",
        "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/estimates.EstimateInput"}}],
        "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    },
    "/estimates/sessions/{id}": {
      "post": {
        "tags": ["Estimates"], "summary": "Estimate a stored session",
        "description": "Estimates the session's trials and stores a summary row",
        "parameters": [
          {"in": "path", "name": "id", "required": true, "type": "string"},
          {"in": "query", "name": "face", "type": "string"}
        ],
        "responses": {"201": {"description": "created", "schema": {"$ref": "#/definitions/envelope"}}, "503": {"description": "database disabled", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    },
    "/estimates/participants/{pid}": {
      "get": {
        "tags": ["Estimates"], "summary": "List a participant's summaries",
        "parameters": [{"in": "path", "name": "pid", "required": true, "type": "string"}],
        "responses": {"200": {"description": "ok", "schema": {"$ref": "#/definitions/envelope"}}}
      }
    }
  },
  "definitions": {
    "envelope": {
      "type": "object",
      "properties": {
        "status_code": {"type": "integer"},
        "status": {"type": "string"},
        "code": {"type": "integer"},
        "error": {"type": "string"},
        "field": {"type": "string"},
        "request_id": {"type": "string"},
        "data": {"type": "object"}
      }
    },
    "sessions.CreateInput": {
      "type": "object",
      "required": ["participant_id"],
      "properties": {
        "participant_id": {"type": "string", "maxLength": 64, "example": "P001"},
        "device": {"type": "string", "maxLength": 512},
        "design": {"type": "string", "maxLength": 64, "example": "default"}
      }
    },
    "sessions.TrialIn": {
      "type": "object",
      "required": ["trial_index", "face_id", "response"],
      "properties": {
        "trial_index": {"type": "integer", "minimum": 1, "maximum": 2147483647, "example": 1},
        "face_id": {"type": "string", "example": "M1"},
        "gaze_level": {"type": "number", "example": -3},
        "repeat": {"type": "integer", "minimum": 0, "maximum": 65535, "example": 2},
        "image_file": {"type": "string", "example": "M1_-3.png"},
        "response": {"type": "string", "enum": ["Left", "Direct", "Right"]},
        "rt_ms": {"type": "integer", "example": 612},
        "presented_at_iso": {"type": "string", "format": "date-time"}
      }
    },
    "sessions.AppendInput": {
      "type": "object",
      "required": ["trials"],
      "properties": {
        "trials": {"type": "array", "minItems": 1, "maxItems": 500, "items": {"$ref": "#/definitions/sessions.TrialIn"}}
      }
    },
    "estimates.Observation": {
      "type": "object",
      "required": ["response"],
      "properties": {
        "face_id": {"type": "string", "example": "M1"},
        "gaze_level": {"type": "number", "example": -3},
        "response": {"type": "string", "enum": ["Left", "Direct", "Right"]}
      }
    },
    "estimates.EstimateInput": {
      "type": "object",
      "required": ["trials"],
      "properties": {
        "trials": {"type": "array", "minItems": 1, "maxItems": 5000, "items": {"$ref": "#/definitions/estimates.Observation"}},
        "face": {"type": "string", "example": "M1"},
        "gaze_min": {"type": "number", "example": -12},
        "gaze_max": {"type": "number", "example": 12}
      }
    }
  }
}`
