package projectdef

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is returned for definitions that cannot be parsed or
// do not match the definition schema.
var ErrInvalidDefinition = errors.New("invalid project definition")

//go:embed project.schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Validate checks a raw YAML document against the definition schema and
// reports every violation.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDefinition)
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(issues, "; "))
}
