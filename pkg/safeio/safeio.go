// Package safeio reads and writes user-named files with path and size guards.
package safeio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxDocumentSize bounds the files ReadUserFile and ReadFileContained accept.
const MaxDocumentSize = 4 << 20

var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrOutsideBase   = errors.New("file path is outside base directory")
	ErrTooLarge      = errors.New("file exceeds maximum document size")
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, part := range strings.Split(filepath.ToSlash(c), "/") {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}
	return filepath.ToSlash(c), nil
}

// ReadUserFile cleans p with CleanUserPath and reads it.
func ReadUserFile(p string) ([]byte, error) {
	clean, err := CleanUserPath(p)
	if err != nil {
		return nil, err
	}
	return readLimited(filepath.FromSlash(clean))
}

// ReadFileContained reads a file only if it resolves to a location inside
// baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve file path: %w", err)
	}

	rel, err := filepath.Rel(baseDirAbs, filePathAbs)
	if err != nil {
		return nil, fmt.Errorf("compute relative path: %w", err)
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return nil, ErrOutsideBase
	}

	return readLimited(filePathAbs)
}

func readLimited(path string) ([]byte, error) {
	// #nosec G304 -- callers have cleaned or contained path
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}
