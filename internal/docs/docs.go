// Package docs registra la descripción OpenAPI del servicio para /swagger.
// El template se mantiene a mano junto con las anotaciones godoc de los
// handlers; router_test verifica que cada ruta montada figure acá.
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
        "/inventory/medicines": {
            "get": {
                "description": "Lista el catálogo. Con q filtra por nombre (sin distinguir mayúsculas).",
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Listar / buscar medicamentos",
                "parameters": [{"type": "string", "description": "Texto a buscar", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Alta de medicamento",
                "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}}
            }
        },
        "/inventory/medicines/{medicineID}/refill": {
            "post": {
                "description": "Suma stock y agrega (o incrementa) la línea del carrito de pedidos.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Reponer stock",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "not found"}}
            }
        },
        "/inventory/cart/submit": {
            "post": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Enviar carrito de pedidos",
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "cart is empty"}, "502": {"description": "notification failed"}}
            }
        },
        "/billing/drafts": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Valorizar borrador de factura",
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}}
            }
        },
        "/bills": {
            "get": {
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Listar / buscar facturas",
                "parameters": [{"type": "string", "description": "Paciente o número de factura", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Finalizar factura (pago)",
                "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}}
            }
        },
        "/prescriptions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["prescriptions"],
                "summary": "Listar / buscar recetas",
                "parameters": [{"type": "string", "description": "Texto a buscar", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/prescriptions/pid/{pid}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["prescriptions"],
                "summary": "Buscar receta por PID",
                "parameters": [{"type": "string", "description": "Patient ID", "name": "pid", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "no prescription found for this PID"}}
            }
        },
        "/prescriptions/{prescriptionID}/dispense": {
            "post": {
                "produces": ["application/json"],
                "tags": ["prescriptions"],
                "summary": "Dispensar receta",
                "parameters": [{"type": "string", "description": "ID de la receta", "name": "prescriptionID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}
            }
        },
        "/inventory/medicines/{medicineID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Obtener medicamento",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}
            },
            "patch": {
                "description": "Campos ausentes no se tocan; el status se recalcula.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Editar medicamento",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "not found"}}
            },
            "delete": {
                "description": "Las líneas del carrito quedan como snapshot.",
                "tags": ["inventory"],
                "summary": "Borrar medicamento",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "not found"}}
            }
        },
        "/inventory/cart": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Ver carrito de pedidos",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["inventory"],
                "summary": "Vaciar carrito de pedidos",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/inventory/cart/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Agregar al carrito sin tocar stock",
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "not found"}}
            }
        },
        "/inventory/cart/items/{medicineID}": {
            "put": {
                "description": "Cantidad <= 0 quita la línea.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Cambiar cantidad de una línea",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "204": {"description": "line removed"}, "404": {"description": "not found"}}
            },
            "delete": {
                "tags": ["inventory"],
                "summary": "Quitar línea del carrito",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "not found"}}
            }
        },
        "/bills/{billID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Obtener factura",
                "parameters": [{"type": "string", "description": "ID de la factura", "name": "billID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}
            }
        },
        "/prescriptions/{prescriptionID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["prescriptions"],
                "summary": "Obtener receta",
                "parameters": [{"type": "string", "description": "ID de la receta", "name": "prescriptionID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}
            },
            "delete": {
                "description": "Borra sin importar el status; una búsqueda posterior por PID la vuelve a importar como pending.",
                "tags": ["prescriptions"],
                "summary": "Borrar receta",
                "parameters": [{"type": "string", "description": "ID de la receta", "name": "prescriptionID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "not found"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/analytics/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Resumen del tablero de farmacia",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hospital Dashboard API",
	Description:      "Farmacia: inventario, facturación, recetas y analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
