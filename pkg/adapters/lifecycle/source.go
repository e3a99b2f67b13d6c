// Package lifecycle bridges record change events into aretw0/lifecycle.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/Itshalffull/propbind/pkg/core"
)

type recordSource struct {
	events <-chan core.Event
	kind   string
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting record change events.
// When kind is non-empty only events of that kind are forwarded.
func NewSource(events <-chan core.Event, kind string) lifecycle.Source {
	return &recordSource{
		events: events,
		kind:   kind,
		out:    make(chan lifecycle.Event),
	}
}

func (s *recordSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *recordSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.kind != "" && e.Kind != s.kind {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
