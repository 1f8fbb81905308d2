package safeio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanUserPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		hasError bool
	}{
		{"simple path", "request.yaml", "request.yaml", false},
		{"relative path", "./requests/glaszetter.json", "requests/glaszetter.json", false},
		{"absolute path", "/tmp/request.toml", "/tmp/request.toml", false},
		{"path with traversal", "../../../etc/passwd", "", true},
		{"path with traversal in middle", "valid/../../../etc/passwd", "", true},
		{"dots in file name", "glaszetter..friesland.yaml", "glaszetter..friesland.yaml", false},
		{"empty path", "", ".", false},
		{"parent directory", "..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CleanUserPath(tt.input)
			if tt.hasError {
				assert.ErrorIs(t, err, ErrPathTraversal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReadUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: glaszetter\n"), 0o644))

	data, err := ReadUserFile(path)
	require.NoError(t, err)
	assert.Equal(t, "service: glaszetter\n", string(data))

	_, err = ReadUserFile("../request.yaml")
	assert.ErrorIs(t, err, ErrPathTraversal)

	_, err = ReadUserFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadUserFile_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", MaxDocumentSize+1)), 0o644))
	_, err := ReadUserFile(path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestReadFileContained(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "requests")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	inside := filepath.Join(sub, "a.json")
	require.NoError(t, os.WriteFile(inside, []byte(`{"service":"x"}`), 0o644))

	data, err := ReadFileContained(base, inside)
	require.NoError(t, err)
	assert.Equal(t, `{"service":"x"}`, string(data))

	_, err = ReadFileContained(sub, filepath.Join(sub, "..", "other.json"))
	assert.ErrorIs(t, err, ErrOutsideBase)

	_, err = ReadFileContained(base, filepath.Join(sub, "missing.json"))
	assert.Error(t, err)
}

func TestWriteFilePreservePerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, WriteFilePreservePerms(path, []byte("first")))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), st.Mode().Perm())

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, WriteFilePreservePerms(path, []byte("second")))
	st, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	assert.Error(t, WriteFilePreservePerms("/non/existent/directory/file.txt", []byte("x")))
}
