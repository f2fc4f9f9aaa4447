package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaError lists every schema violation found in a configuration file
type SchemaError struct {
	File   string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("configuration file %s is not valid: %s", e.File, strings.Join(e.Errors, "; "))
}

// ValidateFile validates a configuration file against the JSON schema
func ValidateFile(configFile string) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return ValidateDocument(configFile, data)
}

// ValidateDocument validates raw JSON configuration against the schema.
// name is only used in the returned error.
func ValidateDocument(name string, data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema (make sure the file is valid JSON): %w", err)
	}

	if !result.Valid() {
		schemaErr := &SchemaError{File: name}
		for _, desc := range result.Errors() {
			schemaErr.Errors = append(schemaErr.Errors, desc.String())
		}
		return schemaErr
	}

	return nil
}
