// Package docs holds the Swagger 2.0 description of the JSON API, served by
// gin-swagger at /swagger/. It is maintained by hand alongside the godoc
// annotations on the endpoint handlers; keep both in step when routes change.
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
        "/api/alerts/": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Paginated alerts, newest first, 10 per page",
                "produces": ["application/json"],
                "tags": ["Alert"],
                "summary": "List alerts",
                "parameters": [
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Only alerts linked to this location id", "name": "location", "in": "query"},
                    {"type": "string", "description": "Comma separated severities (info,warning,error); repeatable", "name": "severity", "in": "query"},
                    {"type": "boolean", "description": "Filter by active flag", "name": "active", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Alerts page", "schema": {"$ref": "#/definitions/endpoint.Page-model_Alert"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "403": {"description": "Authentication required", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "404": {"description": "Invalid page", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            },
            "post": {
                "security": [{"SessionToken": []}],
                "description": "Store an alert and link it to the given locations",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Alert"],
                "summary": "Create alert",
                "parameters": [
                    {"description": "Alert fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoint.CreateAlertRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created alert", "schema": {"$ref": "#/definitions/model.Alert"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "403": {"description": "Authentication required", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/alerts/{id}/": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["Alert"],
                "summary": "Get alert",
                "parameters": [
                    {"type": "integer", "description": "Alert ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Alert", "schema": {"$ref": "#/definitions/model.Alert"}},
                    "403": {"description": "Authentication required", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "404": {"description": "Alert not found", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/locations/": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Every location, alphabetically",
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "List locations",
                "responses": {
                    "200": {"description": "Locations retrieved", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "403": {"description": "Authentication required", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            },
            "post": {
                "security": [{"SessionToken": []}],
                "description": "Store a new named location",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "Create location",
                "parameters": [
                    {"description": "Location fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoint.CreateLocationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Location created", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "400": {"description": "Validation failure or duplicate name", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/locations/nearby/": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Locations with coordinates within radius_km of (lat, lon), closest first",
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "Locations near a point",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "description": "Search radius in km (default 10)", "name": "radius_km", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Nearby locations", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "400": {"description": "Invalid coordinates", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/locations/{id}/": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "Get location",
                "parameters": [
                    {"type": "integer", "description": "Location ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Location retrieved", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "404": {"description": "Location not found", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/locations/{id}/alerts/": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Paginated alerts linked to the location, newest first",
                "produces": ["application/json"],
                "tags": ["Location"],
                "summary": "Alerts at a location",
                "parameters": [
                    {"type": "integer", "description": "Location ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"},
                    {"type": "string", "description": "Comma separated severities; repeatable", "name": "severity", "in": "query"},
                    {"type": "boolean", "description": "Filter by active flag", "name": "active", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Alerts page", "schema": {"$ref": "#/definitions/endpoint.Page-model_Alert"}},
                    "404": {"description": "Location not found", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/profile/": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Current user's profile",
                "responses": {
                    "200": {"description": "Profile retrieved", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "403": {"description": "Authentication required", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            },
            "patch": {
                "security": [{"SessionToken": []}],
                "description": "location_id is required; null clears it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Set the profile's location",
                "parameters": [
                    {"description": "Location to follow", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoint.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "Profile updated", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "400": {"description": "Invalid request or unknown location", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/api/profile/alerts/": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Empty page when the profile has no location",
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Active alerts at the profile's location",
                "parameters": [
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Alerts page", "schema": {"$ref": "#/definitions/endpoint.Page-model_Alert"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticate with username and password; the token is also set as the session_token cookie",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "User login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoint.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "400": {"description": "Invalid credentials or locked account", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/logout": {
            "delete": {
                "security": [{"SessionToken": []}],
                "description": "Invalidate the current session token",
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "User logout",
                "responses": {
                    "200": {"description": "Logout successful", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Register a new account together with its profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "User signup",
                "parameters": [
                    {"description": "Signup details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoint.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Signup successful", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "400": {"description": "Invalid request or username already exists", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/token/validate": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Check that the session token is known and not expired",
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Validate session token",
                "responses": {
                    "200": {"description": "Valid session token", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "401": {"description": "Invalid or expired session token", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/user": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "User retrieved", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            },
            "patch": {
                "security": [{"SessionToken": []}],
                "description": "Change email and/or password. A password change ends every other session.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Update current user",
                "parameters": [
                    {"description": "Update details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoint.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "Update successful", "schema": {"$ref": "#/definitions/util.APIResponse"}},
                    "400": {"description": "Invalid request or email already exists", "schema": {"$ref": "#/definitions/util.APIResponse"}}
                }
            }
        },
        "/ws/alerts": {
            "get": {
                "security": [{"SessionToken": []}],
                "description": "Websocket pushing {\"kind\":\"alert.created\",\"alert\":{...}} for every new alert",
                "tags": ["Alert"],
                "summary": "Alert stream",
                "responses": {}
            }
        }
    },
    "definitions": {
        "endpoint.CreateAlertRequest": {
            "type": "object",
            "properties": {
                "is_active": {"type": "boolean", "example": true},
                "location_ids": {"type": "array", "items": {"type": "integer"}, "example": [1, 2]},
                "message": {"type": "string", "example": "River levels are rising"},
                "severity": {"type": "string", "example": "warning"},
                "title": {"type": "string", "example": "Flood warning"}
            }
        },
        "endpoint.CreateLocationRequest": {
            "type": "object",
            "properties": {
                "address": {"type": "string", "example": "Manhattan, NY"},
                "latitude": {"type": "number", "example": 40.7128},
                "longitude": {"type": "number", "example": -74.006},
                "name": {"type": "string", "example": "New York"}
            }
        },
        "endpoint.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "password123"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "endpoint.Page-model_Alert": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 15},
                "next": {"type": "string", "example": "http://localhost:8080/api/alerts/?page=2"},
                "previous": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/model.Alert"}}
            }
        },
        "endpoint.SignupRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "email": {"type": "string", "example": "alice@example.com"},
                "password": {"type": "string", "minLength": 8, "example": "password123"},
                "username": {"type": "string", "maxLength": 150, "example": "alice"}
            }
        },
        "endpoint.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "location_id": {"type": "integer", "example": 3}
            }
        },
        "endpoint.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "alice@example.com"},
                "password": {"type": "string", "minLength": 8, "example": "newpassword123"}
            }
        },
        "model.Alert": {
            "description": "Alert with its associated locations",
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer", "example": 1},
                "is_active": {"type": "boolean", "example": true},
                "locations": {"type": "array", "items": {"$ref": "#/definitions/model.Location"}},
                "message": {"type": "string", "example": "River levels are rising"},
                "severity": {"type": "string", "enum": ["info", "warning", "error"], "example": "warning"},
                "title": {"type": "string", "example": "Flood warning"}
            }
        },
        "model.Location": {
            "type": "object",
            "properties": {
                "address": {"type": "string", "example": "Manhattan, NY"},
                "id": {"type": "integer", "example": 1},
                "latitude": {"type": "number", "example": 40.7128},
                "longitude": {"type": "number", "example": -74.006},
                "name": {"type": "string", "example": "New York"}
            }
        },
        "util.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "msg": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "SessionToken": {
            "type": "apiKey",
            "name": "session-token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Alert Board API",
	Description:      "Alerts linked to locations, with per-user location profiles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
