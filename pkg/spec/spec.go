package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the file name LoadProject looks for.
const ProjectFile = "phpp.yaml"

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a project from YAML bytes.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}
	return &p, nil
}

// LoadProject loads a project from a directory containing phpp.yaml, or
// from a file path directly.
func LoadProject(path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening project: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, ProjectFile)
	}
	return Load(path)
}
