// Package core holds the domain types shared by the classifier, the adapters and
// the storage backends.
package core

import "fmt"

// PropSet is the framework-neutral input: property key to arbitrary JSON value.
type PropSet map[string]any

// Binding is the target-specific output of one normalize call.
type Binding map[string]any

// Record is an opaque stored entity. Backends treat it as a JSON object.
type Record map[string]any

// AdapterRecord is the persisted outcome of a normalize call.
// Normalized holds the serialized Binding.
type AdapterRecord struct {
	Adapter    string `json:"adapter"`
	Target     string `json:"target"`
	Normalized string `json:"normalized"`
}

// EventType represents the type of change observed in a backend.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored record.
type Event struct {
	Type      EventType
	Kind      string
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Kind, e.ID)
}
