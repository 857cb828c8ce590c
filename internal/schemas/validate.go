// Package schemas validates the free-form JSON objects of a job posting
// against embedded JSON Schemas.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Name selects an embedded schema.
type Name string

const (
	MatchingWeights           Name = "matching_weights"
	CommunicationRequirements Name = "communication_requirements"
	RequiredExperience        Name = "required_experience"
	RequiredEducation         Name = "required_education"
)

//go:embed json/*.json
var files embed.FS

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Schema Name
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is invalid:", ve.Schema)
	for i, err := range ve.Errors {
		if i > 0 {
			sb.WriteString(";")
		}
		fmt.Fprintf(&sb, " %s: %s", err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Schema Name
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func schemaSource(name Name) (string, error) {
	raw, err := files.ReadFile("json/" + string(name) + ".json")
	if err != nil {
		return "", &SchemaLoadError{Schema: name, Cause: err}
	}
	return string(raw), nil
}

// Validate checks doc, any JSON-marshalable value, against the named schema.
func Validate(name Name, doc any) error {
	source, err := schemaSource(name)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(source), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &SchemaLoadError{Schema: name, Cause: err}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

// LoadObject reads a JSON object from path and validates it against the
// named schema.
func LoadObject(name Name, path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("parse %s from %q: %w", name, path, err)
	}

	if err := Validate(name, obj); err != nil {
		return nil, err
	}
	return obj, nil
}
