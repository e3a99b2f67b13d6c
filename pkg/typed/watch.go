package typed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Itshalffull/propbind/pkg/core"
)

// Change is a storage event decoded into T. Value is the zero T for deletes
// and when Err is set.
type Change[T any] struct {
	Event core.Event
	Value T
	Err   error
}

// Watch observes records of this store's kind whose id matches idPattern
// ("" means every id) and decodes each one into T.
// The returned channel closes when the underlying watch does.
func (s *Store[T]) Watch(ctx context.Context, w core.Watchable, idPattern string) (<-chan Change[T], error) {
	if idPattern == "" {
		idPattern = "*"
	}
	events, err := w.Watch(ctx, s.kind+"/"+idPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", s.kind, err)
	}

	out := make(chan Change[T])
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Kind != s.kind {
				continue
			}
			change := Change[T]{Event: ev}
			if ev.Type != core.EventDelete {
				change.Value, change.Err = s.Get(ctx, ev.ID)
				// The record may be gone by the time we read it.
				if errors.Is(change.Err, core.ErrNotFound) {
					change.Event.Type = core.EventDelete
					change.Err = nil
				}
			}
			select {
			case out <- change:
			case <-ctx.Done():
				// Drain so the producer can finish closing.
				for range events {
				}
				return
			}
		}
	}()
	return out, nil
}
