package manifest

import (
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse unmarshals manifest YAML without schema validation.
func Parse(data []byte) (*TemplateManifest, error) {
	var m TemplateManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Load validates data against the schema and parses it. Schema violations
// are returned as *InvalidError.
func Load(data []byte, source string) (*TemplateManifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", source, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return m, nil
}

// LoadFS reads and loads the manifest at name inside fsys.
func LoadFS(fsys fs.FS, name string) (*TemplateManifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", name, err)
	}
	return Load(data, name)
}

// LoadFile reads and loads the manifest file at path.
func LoadFile(path string) (*TemplateManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, path)
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
