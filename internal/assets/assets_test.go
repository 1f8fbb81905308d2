package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchemaNames(t *testing.T) {
	infos := GetSchemaNames()
	require.Len(t, infos, 3)
	assert.Equal(t, BundleSchema, infos[0].Name)
	assert.Equal(t, ConfigSchema, infos[1].Name)
	assert.Equal(t, RequestSchema, infos[2].Name)
	for _, info := range infos {
		assert.Equal(t, "Draft-07", info.Draft, info.Name)
	}
}

func TestGetSchema(t *testing.T) {
	path, ok := SchemaPath(RequestSchema)
	require.True(t, ok)
	data, ok := GetSchema(path)
	require.True(t, ok)
	assert.Contains(t, string(data), "additionalProperties: false")

	_, ok = GetSchema("schemas/v9/missing.yaml")
	assert.False(t, ok)
	_, ok = SchemaPath("nope")
	assert.False(t, ok)
}

func TestGetTemplate(t *testing.T) {
	data, ok := GetTemplate("report/markdown.hbs")
	require.True(t, ok)
	assert.Contains(t, string(data), "{{#each headlines}}")

	entries, err := fs.ReadDir(GetTemplatesFS(), "report")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
