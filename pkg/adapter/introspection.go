package adapter

import (
	"github.com/aretw0/introspection"
)

// State is the observable configuration of an Adapter.
type State struct {
	Target      string            `json:"target"`
	Description string            `json:"description,omitempty"`
	Kind        string            `json:"kind"`
	Aliases     []string          `json:"aliases,omitempty"`
	Events      map[string]string `json:"events"`
	Unsupported []string          `json:"unsupported,omitempty"`
	Layouts     map[string]string `json:"layouts,omitempty"`
}

// State implements introspection.Introspectable.
func (a *Adapter) State() any {
	st := State{
		Target:      a.spec.Name,
		Description: a.spec.Description,
		Kind:        a.Kind(),
		Aliases:     append([]string(nil), a.spec.Aliases...),
		Events:      a.spec.Events.Entries(),
	}
	if a.spec.Unsupported.Len() > 0 {
		st.Unsupported = a.spec.Unsupported.Names()
	}
	if a.spec.Layouts.Len() > 0 {
		st.Layouts = a.spec.Layouts.Entries()
	}
	return st
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "adapter"
}

var _ introspection.Introspectable = (*Adapter)(nil)
var _ introspection.Component = (*Adapter)(nil)
