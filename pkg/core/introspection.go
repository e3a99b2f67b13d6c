package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Targets     []string `json:"targets"`
	Concurrency int      `json:"concurrency"`
	StorageType string   `json:"storage_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storageType := "unknown"
	if s.store != nil {
		storageType = "storage"
		if comp, ok := s.store.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}

	return ServiceState{
		Targets:     s.Targets(),
		Concurrency: s.concurrency,
		StorageType: storageType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
