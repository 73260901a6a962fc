// Package docs registers the OpenAPI specification with the swag runtime
// so the gin-swagger endpoint can serve it. Regenerate with `swag init`
// after changing handler annotations.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.1.0",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/customers": {
      "post": {"tags": ["customers"], "operationId": "createCustomer", "summary": "Create a new customer", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}},
      "get": {"tags": ["customers"], "operationId": "listCustomers", "summary": "List customers", "responses": {"200": {"description": "OK"}}}
    },
    "/customers/{id}": {
      "get": {"tags": ["customers"], "operationId": "getCustomerById", "summary": "Get customer by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
      "put": {"tags": ["customers"], "operationId": "updateCustomer", "summary": "Update a customer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
      "delete": {"tags": ["customers"], "operationId": "deleteCustomer", "summary": "Delete a customer", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
    },
    "/customers/bulk": {
      "post": {"tags": ["customers"], "operationId": "bulkCreateCustomers", "summary": "Create customers in bulk", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "500": {"description": "Internal Server Error"}}}
    },
    "/products": {
      "post": {"tags": ["products"], "operationId": "createProduct", "summary": "Create a new product", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
      "get": {"tags": ["products"], "operationId": "listProducts", "summary": "List products", "responses": {"200": {"description": "OK"}}}
    },
    "/products/{id}": {
      "get": {"tags": ["products"], "operationId": "getProductById", "summary": "Get product by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
      "put": {"tags": ["products"], "operationId": "updateProduct", "summary": "Update a product", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
      "delete": {"tags": ["products"], "operationId": "deleteProduct", "summary": "Delete a product", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
    },
    "/orders": {
      "post": {"tags": ["orders"], "operationId": "createOrder", "summary": "Create a new order", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}},
      "get": {"tags": ["orders"], "operationId": "listOrders", "summary": "List orders", "responses": {"200": {"description": "OK"}}}
    },
    "/orders/{id}": {
      "get": {"tags": ["orders"], "operationId": "getOrderById", "summary": "Get order by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
    },
    "/orders/{id}/cancel": {
      "post": {"tags": ["orders"], "operationId": "cancelOrder", "summary": "Cancel an order", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CRM Backend API",
	Description:      "Customer, product and order management API with bulk customer ingestion",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
