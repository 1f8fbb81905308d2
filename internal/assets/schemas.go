package assets

import (
	"encoding/json"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema names understood by the validator.
const (
	RequestSchema = "request-v1.0.0"
	BundleSchema  = "bundle-v1.0.0"
	ConfigSchema  = "config-v1.0.0"
)

// knownSchemas maps schema names to paths under the schemas root.
var knownSchemas = map[string]string{
	RequestSchema: "schemas/v1.0.0/request.yaml",
	BundleSchema:  "schemas/v1.0.0/bundle.yaml",
	ConfigSchema:  "schemas/v1.0.0/config.yaml",
}

// SchemaInfo holds schema metadata.
type SchemaInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Draft string `json:"draft"`
}

// GetSchema returns the embedded schema bytes by path relative to the schemas
// root (e.g., "schemas/v1.0.0/request.yaml").
func GetSchema(relPath string) ([]byte, bool) {
	data, err := fs.ReadFile(GetSchemasFS(), relPath)
	return data, err == nil
}

// SchemaPath returns the embedded path of a named schema.
func SchemaPath(name string) (string, bool) {
	p, ok := knownSchemas[name]
	return p, ok
}

// GetSchemaNames returns the embedded schemas sorted by name.
func GetSchemaNames() []SchemaInfo {
	var infos []SchemaInfo
	for name, path := range knownSchemas {
		if _, ok := GetSchema(path); ok {
			infos = append(infos, SchemaInfo{Name: name, Path: path, Draft: detectDraft(path)})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// detectDraft heuristically detects draft from schema bytes via $schema key.
func detectDraft(path string) string {
	bytes, ok := GetSchema(path)
	if !ok {
		return "Unknown"
	}
	var doc interface{}
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		if err := json.Unmarshal(bytes, &doc); err != nil {
			return "Unknown"
		}
	}
	if m, ok := doc.(map[string]interface{}); ok {
		if v, ok := m["$schema"].(string); ok {
			if strings.Contains(v, "draft-07") {
				return "Draft-07"
			}
			if strings.Contains(v, "2020-12") {
				return "Draft-2020-12"
			}
		}
	}
	return "Unknown"
}
