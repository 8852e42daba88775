package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the top level of a declarations file.
type document struct {
	Entities []*Schema `yaml:"entities"`
}

// ParseFile parses the entity declarations of a YAML file.
func ParseFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return parse(path, data)
}

// Parse parses entity declarations from YAML bytes.
func Parse(data []byte) ([]*Schema, error) {
	return parse("", data)
}

// ParseDir parses every .yaml and .yml file in dir and its subdirectories.
// Files are read in lexical order so the result is stable.
func ParseDir(dir string) ([]*Schema, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsSchemaFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	slices.Sort(files)
	var schemas []*Schema
	for _, path := range files {
		s, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s...)
	}
	return schemas, nil
}

// ParsePath parses a declarations file or directory.
func ParsePath(path string) ([]*Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ParseDir(path)
	}
	return ParseFile(path)
}

// IsSchemaFile reports whether the path names a YAML declarations file.
func IsSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parse(file string, data []byte) ([]*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if file != "" {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if file == "" {
		file = "<input>"
	}
	var errs []error
	for i, s := range doc.Entities {
		if s == nil {
			errs = append(errs, fmt.Errorf("%s: entity #%d is empty", file, i))
			continue
		}
		if s.Pos == "" {
			s.Pos = fmt.Sprintf("%s:%d", file, s.line)
		}
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s: entity name is required", s.Pos))
		}
		for j, f := range s.Fields {
			if err := f.normalize(file); err != nil {
				errs = append(errs, fmt.Errorf("entity %q field #%d: %w", s.Name, j, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return doc.Entities, nil
}

func (f *Field) normalize(file string) error {
	if f == nil {
		return errors.New("empty field")
	}
	if f.Pos == "" {
		f.Pos = fmt.Sprintf("%s:%d", file, f.line)
	}
	switch {
	case f.Name == "":
		return fmt.Errorf("%s: field name is required", f.Pos)
	case f.Type.Name == "":
		return fmt.Errorf("%s: field %q has no type", f.Pos, f.Name)
	}
	f.Type = f.Type.Resolved()
	return nil
}
