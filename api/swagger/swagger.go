package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HallGuardian API",
        "description": "Scan ingestion and presence tracking backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Operator authentication"},
        {"name": "Scans", "description": "QR/NFC scan ingestion"},
        {"name": "Presence", "description": "Derived presence queries"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a scanner operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/scan/qr": {
            "post": {
                "tags": ["Scans"],
                "summary": "Ingest a QR badge read",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QRScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing fields"},
                    "404": {"description": "Unknown student"}
                }
            }
        },
        "/scan/nfc": {
            "post": {
                "tags": ["Scans"],
                "summary": "Ingest an NFC card read",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NFCScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing fields"},
                    "404": {"description": "Unknown student"}
                }
            }
        },
        "/students/{id}/current-location": {
            "get": {
                "tags": ["Presence"],
                "summary": "Current location of a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/locations/{id}/occupants": {
            "get": {
                "tags": ["Presence"],
                "summary": "Students currently inside a location",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown location"}
                }
            }
        },
        "/schools/{id}/current-out": {
            "get": {
                "tags": ["Presence"],
                "summary": "Students currently out of class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/schools/{id}/scan-events/export": {
            "get": {
                "tags": ["Scans"],
                "summary": "Export recent scan history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad format"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "QRScanRequest": {
            "type": "object",
            "required": ["qrValue", "locationCode", "schoolId"],
            "properties": {
                "qrValue": {"type": "string"},
                "locationCode": {"type": "string"},
                "schoolId": {"type": "string"},
                "deviceLabel": {"type": "string"}
            }
        },
        "NFCScanRequest": {
            "type": "object",
            "required": ["cardUid", "locationCode", "schoolId"],
            "properties": {
                "cardUid": {"type": "string"},
                "locationCode": {"type": "string"},
                "schoolId": {"type": "string"},
                "deviceLabel": {"type": "string"}
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
