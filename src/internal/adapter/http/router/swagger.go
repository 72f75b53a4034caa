package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func registerSwaggerRoutes(r *mux.Router) {
	r.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	}).Methods(http.MethodGet)

	r.HandleFunc("/swagger/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	}).Methods(http.MethodGet)

	r.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	}).Methods(http.MethodGet)
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Bank REST API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Bank REST API",
    "version": "1.0.0"
  },
  "paths": {
    "/api/v1/accounts": {
      "get": {
        "summary": "List active accounts",
        "responses": {
          "200": {"description": "Accounts", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AccountListEnvelope"}}}}
        }
      },
      "post": {
        "summary": "Create account",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AccountRequest"}}}},
        "responses": {
          "201": {"description": "Created"},
          "400": {"$ref": "#/components/responses/Error"}
        }
      }
    },
    "/api/v1/accounts/{id}": {
      "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer", "format": "int64"}}],
      "get": {
        "summary": "Get account",
        "responses": {
          "200": {"description": "Account", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AccountEnvelope"}}}},
          "400": {"$ref": "#/components/responses/Error"},
          "404": {"$ref": "#/components/responses/Error"}
        }
      },
      "put": {
        "summary": "Replace account email and balance",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AccountRequest"}}}},
        "responses": {
          "200": {"description": "Updated"},
          "400": {"$ref": "#/components/responses/Error"},
          "404": {"$ref": "#/components/responses/Error"},
          "409": {"$ref": "#/components/responses/Error"}
        }
      },
      "delete": {
        "summary": "Deactivate account",
        "responses": {
          "200": {"description": "Deactivated"},
          "400": {"$ref": "#/components/responses/Error"},
          "404": {"$ref": "#/components/responses/Error"}
        }
      }
    },
    "/api/v1/transactions": {
      "get": {
        "summary": "List ledger entries ascending by id",
        "responses": {
          "200": {"description": "Ledger", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/TransactionListEnvelope"}}}}
        }
      },
      "post": {
        "summary": "Transfer funds between two accounts",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/TransferRequest"}}}},
        "responses": {
          "201": {"description": "Committed"},
          "400": {"$ref": "#/components/responses/Error"},
          "404": {"$ref": "#/components/responses/Error"},
          "409": {"$ref": "#/components/responses/Error"}
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Liveness and store reachability",
        "responses": {"200": {"description": "Healthy"}, "503": {"description": "Store unreachable"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Decimal": {"oneOf": [{"type": "string"}, {"type": "number"}], "example": "10.10"},
      "AccountRequest": {
        "type": "object",
        "required": ["email"],
        "properties": {
          "id": {"type": "integer", "format": "int64", "description": "ignored on create; path id wins on update"},
          "email": {"type": "string"},
          "balance": {"$ref": "#/components/schemas/Decimal"}
        }
      },
      "Account": {
        "type": "object",
        "properties": {
          "id": {"type": "integer", "format": "int64"},
          "email": {"type": "string"},
          "balance": {"type": "string"}
        }
      },
      "TransferRequest": {
        "type": "object",
        "required": ["source", "target", "amount"],
        "properties": {
          "source": {"type": "integer", "format": "int64"},
          "target": {"type": "integer", "format": "int64"},
          "amount": {"$ref": "#/components/schemas/Decimal"}
        }
      },
      "Transaction": {
        "type": "object",
        "properties": {
          "id": {"type": "integer", "format": "int64"},
          "source": {"type": "integer", "format": "int64"},
          "target": {"type": "integer", "format": "int64"},
          "amount": {"type": "string"},
          "transactionTime": {"type": "string", "format": "date-time"}
        }
      },
      "AccountEnvelope": {
        "type": "object",
        "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {"$ref": "#/components/schemas/Account"}}
      },
      "AccountListEnvelope": {
        "type": "object",
        "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {"type": "array", "items": {"$ref": "#/components/schemas/Account"}}}
      },
      "TransactionListEnvelope": {
        "type": "object",
        "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {"type": "array", "items": {"$ref": "#/components/schemas/Transaction"}}}
      },
      "ErrorEnvelope": {
        "type": "object",
        "properties": {
          "success": {"type": "boolean", "example": false},
          "message": {"type": "string"},
          "code": {"type": "string", "enum": ["MALFORMED_INPUT", "MALFORMED_TRANSFER", "ACCOUNT_NOT_FOUND", "INSUFFICIENT_FUNDS", "CONCURRENT_MODIFICATION"]}
        }
      }
    },
    "responses": {
      "Error": {"description": "Classified failure", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorEnvelope"}}}}
    }
  }
}`
