// Package output writes generated schema files.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the generated schema file
const FileName = "schema.prisma"

// WriteFile writes content to dir/schema.prisma, creating dir if it doesn't
// exist. An empty dir means the current working directory. Returns the path
// written.
func WriteFile(dir, content string) (string, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}
