package docs

import "github.com/swaggo/swag"

// ReadDoc отдает документ OpenAPI, зарегистрированный в init
func ReadDoc() (string, error) {
	return swag.ReadDoc(SwaggerInfo.InstanceName())
}
