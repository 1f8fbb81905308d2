package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_schemas
var Schemas embed.FS

//go:embed embedded_templates
var Templates embed.FS

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

// GetTemplate returns an embedded template by path relative to the
// templates root (e.g., "report/markdown.hbs").
func GetTemplate(relPath string) ([]byte, bool) {
	data, err := fs.ReadFile(GetTemplatesFS(), relPath)
	return data, err == nil
}
