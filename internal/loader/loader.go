// Package loader reads model descriptors from JSON or YAML files.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/prismaschema/internal/schema"
)

// Load reads a descriptor file and validates it. The format follows the file
// extension: .json, .yaml or .yml. The document is either an object with a
// "models" list or the list itself.
func Load(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var s *schema.Schema
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		s, err = decodeJSON(data)
	case ".yaml", ".yml":
		s, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported model file extension %q (must be .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeJSON(data []byte) (*schema.Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var models []schema.Model
		if err := strictJSON(trimmed, &models); err != nil {
			return nil, err
		}
		return &schema.Schema{Models: models}, nil
	}

	var s schema.Schema
	if err := strictJSON(trimmed, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func strictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected content after the top-level value")
	}
	return nil
}

func decodeYAML(data []byte) (*schema.Schema, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return &schema.Schema{}, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var models []schema.Model
		if err := strictYAML(data, &models); err != nil {
			return nil, err
		}
		return &schema.Schema{Models: models}, nil
	}

	var s schema.Schema
	if err := strictYAML(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func strictYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}
