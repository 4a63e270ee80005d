package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".yaml", ".yml", ".cue"}

// IsFixtureFile reports whether path has a fixture extension.
func IsFixtureFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads and validates a fixture file. The format is chosen by
// extension: .yaml and .yml are YAML, .cue is CUE.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var f *Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = ParseYAML(data)
	case ".cue":
		f, err = ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported fixture extension %q (want one of %v)", filepath.Ext(path), Extensions)
	}
	if err != nil {
		return nil, err
	}
	f.Path = path

	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseYAML decodes a YAML fixture. Unknown fields are rejected.
func ParseYAML(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}

// ParseCUE evaluates a CUE fixture. The value must be concrete after
// evaluation; constraints and definitions may be used to build it.
func ParseCUE(data []byte, filename string) (*Fixture, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE fixture is not concrete: %w", err)
	}

	var f Fixture
	if err := v.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return &f, nil
}
