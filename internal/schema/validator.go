package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fulmenhq/rsaforge/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // dotted field path (e.g., "keywordList.0")
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// registry holds pre-compiled schemas keyed by name (e.g., "request-v1.0.0").
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	for _, info := range assets.GetSchemaNames() {
		schemaBytes, ok := assets.GetSchema(info.Path)
		if !ok || len(schemaBytes) == 0 {
			continue
		}
		// gojsonschema only reads JSON
		var schemaData interface{}
		if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
			continue
		}
		jsonBytes, err := json.Marshal(schemaData)
		if err != nil {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
		if err != nil {
			continue
		}
		registry[info.Name] = schema
	}
}

// Validate validates a decoded document against the named schema. Errors are
// sorted by path.
func Validate(data interface{}, schemaName string) (*Result, error) {
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	if !result.Valid() {
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" || field == "(root)" {
				field = "root"
			}
			res.Errors = append(res.Errors, ValidationError{
				Path:    field,
				Message: verr.Description(),
			})
		}
		sort.SliceStable(res.Errors, func(i, j int) bool { return res.Errors[i].Path < res.Errors[j].Path })
	}

	return res, nil
}
