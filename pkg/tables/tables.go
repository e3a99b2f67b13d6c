// Package tables loads per-target mapping overrides from YAML.
//
//	version: "1"
//	targets:
//	  compose:
//	    events:
//	      swipe: Modifier.swipeable
//	  watchos:
//	    unsupported: [pinch]
package tables

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Itshalffull/propbind/pkg/adapter"
)

// File is a parsed overrides document.
type File struct {
	Version string                       `yaml:"version"`
	Targets map[string]adapter.Overrides `yaml:"targets"`
}

// LoadFile reads and parses an overrides file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tables YAML: %w", err)
	}
	applyDefaults(&f)
	return &f, nil
}

// applyDefaults fills the version and lowercases target names.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
	targets := make(map[string]adapter.Overrides, len(f.Targets))
	for name, o := range f.Targets {
		targets[strings.ToLower(strings.TrimSpace(name))] = o
	}
	f.Targets = targets
}

// Names returns the target names present in the file, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Targets))
	for name := range f.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
