package fs

import (
	"sync"
	"time"

	"github.com/Itshalffull/propbind/pkg/core"
)

// debouncer coalesces bursts of events for the same record. Only the last
// event seen within the window is delivered.
type debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(event core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	key := event.Kind + "/" + event.ID
	if t, ok := d.pending[key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.pending[key] == timer {
			delete(d.pending, key)
		}
		d.mu.Unlock()

		deliver(event)
	})
	d.pending[key] = timer
}

// stopAndWait rejects new events, cancels pending ones and waits up to
// timeout for deliveries already running.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
