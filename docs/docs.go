// Package docs registers the OpenAPI description of the city counter API
// with swag so http-swagger can serve it at /swagger/doc.json.
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
        "/cities/count": {
            "get": {
                "description": "A single character returns every upstream city starting with it, sorted. A longer value returns the cities matching it exactly. Both comparisons ignore case. An empty value returns no cities without calling the upstream.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Cities"
                ],
                "summary": "Count cities by letter or name",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Starting letter or full city name",
                        "name": "letter",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Matching cities",
                        "schema": {
                            "$ref": "#/definitions/types.CityCountResponse"
                        }
                    }
                }
            },
            "options": {
                "tags": [
                    "Cities"
                ],
                "summary": "CORS preflight for the city count route",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        }
    },
    "definitions": {
        "types.CityCountResponse": {
            "type": "object",
            "properties": {
                "cities": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "Cairo",
                        "Caracas"
                    ]
                },
                "count": {
                    "type": "integer",
                    "example": 2
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "City Counter API",
	Description:      "Filters the upstream city list by a starting letter or an exact name.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
