package analyzer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/spatial.json
var spatialSchema string

//go:embed schemas/evidence.json
var evidenceSchema string

// SchemaError lists the JSON Schema violations of an analyzer payload
type SchemaError struct {
	Shape  string
	Errors []FieldError
}

// FieldError is a single violation at a field path
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s response failed schema validation", e.Shape)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, "; %d. %s: %s", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// schemaValidator checks payloads against one compiled schema
type schemaValidator struct {
	shape  string
	schema *gojsonschema.Schema
}

func newSchemaValidator(shape, source string) (*schemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", shape, err)
	}
	return &schemaValidator{shape: shape, schema: schema}, nil
}

func (v *schemaValidator) validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", v.shape, err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{
		Shape:  v.shape,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}
