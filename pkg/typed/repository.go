package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Itshalffull/propbind/pkg/core"
)

// Store wraps a core.Storage to provide type-safe access to one record kind.
// Values travel through JSON, so T's json tags define the record fields.
type Store[T any] struct {
	storage core.Storage
	kind    string
}

// NewStore creates a typed view of kind over storage.
func NewStore[T any](storage core.Storage, kind string) *Store[T] {
	return &Store[T]{storage: storage, kind: kind}
}

// Kind returns the record kind this store reads and writes.
func (s *Store[T]) Kind() string {
	return s.kind
}

// Put persists v under id, replacing any previous record.
func (s *Store[T]) Put(ctx context.Context, id string, v T) error {
	rec, err := toRecord(v)
	if err != nil {
		return err
	}
	return s.storage.Put(ctx, s.kind, id, rec)
}

// Get retrieves the record stored under id and unmarshals it.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	rec, err := s.storage.Get(ctx, s.kind, id)
	if err != nil {
		return zero, err
	}
	return fromRecord[T](rec)
}

// Find returns every record matching filter converted to T.
func (s *Store[T]) Find(ctx context.Context, filter core.Record) ([]T, error) {
	recs, err := s.storage.Find(ctx, s.kind, filter)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(recs))
	for i, rec := range recs {
		v, err := fromRecord[T](rec)
		if err != nil {
			return nil, fmt.Errorf("failed to process record %d of %s: %w", i, s.kind, err)
		}
		result = append(result, v)
	}
	return result, nil
}

// Delete removes the record stored under id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	return s.storage.Delete(ctx, s.kind, id)
}

func toRecord[T any](v T) (core.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed record: %w", err)
	}

	var rec core.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to convert typed record to map: %w", err)
	}
	return rec, nil
}

func fromRecord[T any](rec core.Record) (T, error) {
	var v T
	data, err := json.Marshal(rec)
	if err != nil {
		return v, fmt.Errorf("record marshal failed: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return v, nil
}
