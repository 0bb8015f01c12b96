package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prisma", "nested")

	path, err := WriteFile(dir, "model A {\n}\n")
	if err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	if want := filepath.Join(dir, FileName); path != want {
		t.Errorf("WriteFile() path = %s, want %s", path, want)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if string(content) != "model A {\n}\n" {
		t.Errorf("WriteFile() wrote %q", content)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteFile(dir, "first version with more bytes"); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	path, err := WriteFile(dir, "second")
	if err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if string(content) != "second" {
		t.Errorf("WriteFile() left %q, want %q", content, "second")
	}
}

func TestWriteFileDefaultsToWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	path, err := WriteFile("", "content")
	if err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	if path != FileName {
		t.Errorf("WriteFile() path = %s, want %s", path, FileName)
	}
	if _, err := os.Stat(FileName); err != nil {
		t.Errorf("Expected %s in the working directory: %v", FileName, err)
	}
}
