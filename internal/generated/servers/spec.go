package servers

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

// OpenAPIDocument is the raw openapi.yml served at /openapi.yml.
//
//go:embed openapi.yml
var OpenAPIDocument []byte

var (
	swaggerOnce sync.Once
	swaggerSpec *openapi3.T
	swaggerErr  error

	registerOnce sync.Once
	registerErr  error
)

// GetSwagger returns the parsed and validated OpenAPI document. The result
// is cached; callers must not modify it.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		swaggerSpec, swaggerErr = loader.LoadFromData(OpenAPIDocument)
		if swaggerErr != nil {
			return
		}
		swaggerErr = swaggerSpec.Validate(loader.Context)
	})
	return swaggerSpec, swaggerErr
}

// swaggerDoc feeds the document to swag so echo-swagger can serve it as
// doc.json.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

// RegisterSwaggerDoc publishes the OpenAPI document under swag.Name. Only
// the first call registers; swag panics on duplicate names.
func RegisterSwaggerDoc() error {
	registerOnce.Do(func() {
		spec, err := GetSwagger()
		if err != nil {
			registerErr = err
			return
		}
		raw, err := spec.MarshalJSON()
		if err != nil {
			registerErr = err
			return
		}
		swag.Register(swag.Name, swaggerDoc{json: string(raw)})
	})
	return registerErr
}
