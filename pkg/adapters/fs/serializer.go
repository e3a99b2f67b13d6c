package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Itshalffull/propbind/pkg/core"
)

// Serializer defines how to read and write one record file format.
type Serializer interface {
	// Parse reads a record from r.
	Parse(r io.Reader) (core.Record, error)
	// Serialize converts a record to bytes.
	Serialize(rec core.Record) ([]byte, error)
}

// DefaultSerializers returns the supported formats keyed by file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// --- JSON Serializer ---

// JSONSerializer reads numbers as json.Number so large integers survive.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Parse(r io.Reader) (core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rec core.Record
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if rec == nil {
		rec = core.Record{}
	}
	return rec, nil
}

func (s *JSONSerializer) Serialize(rec core.Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// --- YAML Serializer ---

// YAMLSerializer reads and writes YAML records. Nested mappings are
// normalized to map[string]any.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if payload == nil {
		return core.Record{}, nil
	}
	return core.Record(normalizeYAML(payload).(map[string]any)), nil
}

func (s *YAMLSerializer) Serialize(rec core.Record) ([]byte, error) {
	return yaml.Marshal(map[string]any(rec))
}

// normalizeYAML converts map[any]any produced for non-string keys into
// map[string]any so records stay JSON-compatible.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}
