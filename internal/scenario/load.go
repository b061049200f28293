package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a scenario definition from path and validates it.
//
//   - a .yaml/.yml file is decoded as YAML
//   - a .cue file is compiled as a standalone CUE file
//   - a directory is loaded as a CUE package
func Load(path string) (*Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if info.IsDir() {
		return LoadCUEDir(path)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".cue":
		return LoadCUEFile(path)
	default:
		return nil, fmt.Errorf("scenario: unsupported file type %q (want .yaml, .yml, or .cue)", filepath.Ext(path))
	}
}

// LoadYAML decodes a single-document YAML scenario file. Unknown keys
// are rejected so typos in category or field names surface as load
// errors instead of silently inert configuration.
func LoadYAML(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("scenario: decode %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
