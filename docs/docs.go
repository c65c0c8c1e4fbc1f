// Package docs holds the generated OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/products": {
            "get": {
                "tags": ["Products"],
                "summary": "List products",
                "responses": {"200": {"description": "Paginated list of products"}}
            },
            "post": {
                "tags": ["Products"],
                "summary": "Create a product",
                "responses": {
                    "201": {"description": "Product created"},
                    "400": {"description": "Invalid request body"},
                    "409": {"description": "Model already exists"}
                }
            }
        },
        "/products/{model}": {
            "get": {
                "tags": ["Products"],
                "summary": "Get a product",
                "responses": {
                    "200": {"description": "Product"},
                    "404": {"description": "Product not found"}
                }
            },
            "delete": {
                "tags": ["Products"],
                "summary": "Delete a product and its reviews",
                "responses": {
                    "204": {"description": "Product deleted"},
                    "404": {"description": "Product not found"}
                }
            }
        },
        "/products/{model}/reviews": {
            "get": {
                "tags": ["Reviews"],
                "summary": "List reviews for a product",
                "responses": {
                    "200": {"description": "List of reviews"},
                    "404": {"description": "Product not found"}
                }
            },
            "post": {
                "tags": ["Reviews"],
                "summary": "Create a review",
                "responses": {
                    "201": {"description": "Review created"},
                    "400": {"description": "Invalid request body"},
                    "404": {"description": "Product not found"},
                    "409": {"description": "Review already exists"}
                }
            },
            "delete": {
                "tags": ["Reviews"],
                "summary": "Delete all reviews for a product",
                "responses": {
                    "204": {"description": "Reviews deleted"},
                    "404": {"description": "Product not found"}
                }
            }
        },
        "/products/{model}/reviews/{user}": {
            "delete": {
                "tags": ["Reviews"],
                "summary": "Delete a review",
                "responses": {
                    "204": {"description": "Review deleted"},
                    "404": {"description": "Product or review not found"}
                }
            }
        },
        "/reviews": {
            "delete": {
                "tags": ["Reviews"],
                "summary": "Delete all reviews (admin only)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Reviews deleted"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Shopspire Backend API",
	Description:      "E-commerce backend exposing product catalog and review management endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
