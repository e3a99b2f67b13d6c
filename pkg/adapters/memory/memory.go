// Package memory implements core.Storage in process memory.
// Records are deep-copied on the way in and out so callers never share state
// with the store.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Itshalffull/propbind/pkg/core"
)

// Storage is an in-memory core.Storage.
type Storage struct {
	mu      sync.RWMutex
	records map[string]map[string][]byte // kind -> id -> JSON
}

// New creates an empty store.
func New() *Storage {
	return &Storage{records: make(map[string]map[string][]byte)}
}

// Initialize implements core.Storage. Nothing to prepare.
func (s *Storage) Initialize(ctx context.Context) error { return nil }

// Get implements core.Storage.
func (s *Storage) Get(ctx context.Context, kind, id string) (core.Record, error) {
	s.mu.RLock()
	data, ok := s.records[kind][id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", kind, id, core.ErrNotFound)
	}
	return decode(data)
}

// Put implements core.Storage.
func (s *Storage) Put(ctx context.Context, kind, id string, rec core.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s/%s: %w", kind, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records[kind] == nil {
		s.records[kind] = make(map[string][]byte)
	}
	s.records[kind][id] = data
	return nil
}

// Delete implements core.Storage.
func (s *Storage) Delete(ctx context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records[kind], id)
	return nil
}

// Find implements core.Storage. Results are ordered by id.
func (s *Storage) Find(ctx context.Context, kind string, filter core.Record) ([]core.Record, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.records[kind]))
	for id := range s.records[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raw := make([][]byte, len(ids))
	for i, id := range ids {
		raw[i] = s.records[kind][id]
	}
	s.mu.RUnlock()

	var out []core.Record
	for _, data := range raw {
		rec, err := decode(data)
		if err != nil {
			return nil, err
		}
		if core.Match(rec, filter) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Len returns the number of records of kind.
func (s *Storage) Len(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[kind])
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory"
}

func decode(data []byte) (core.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec core.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("corrupt record: %w", err)
	}
	return rec, nil
}
