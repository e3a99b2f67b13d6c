package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Normalizer is one target adapter as seen by the Service.
type Normalizer interface {
	// Target is the canonical target name (e.g. "compose").
	Target() string
	// Kind is the storage kind the adapter persists under.
	Kind() string
	// Normalize transforms props and persists the outcome under adapterID.
	Normalize(ctx context.Context, adapterID, props string) (Result, error)
	// Record returns the last persisted outcome for adapterID.
	Record(ctx context.Context, adapterID string) (AdapterRecord, error)
	// Records returns every persisted outcome matching filter.
	Records(ctx context.Context, filter Record) ([]AdapterRecord, error)
}

// Request is one entry of a batch normalize.
type Request struct {
	Target  string `json:"target"`
	Adapter string `json:"adapter"`
	Props   string `json:"props"`
}

// ServiceConfig tunes a Service.
type ServiceConfig struct {
	Logger *slog.Logger
	// Concurrency bounds NormalizeAll. Zero or less means 4.
	Concurrency int
	// Resolve maps a user supplied hint to a target name. Optional.
	Resolve func(hint string) (string, bool)
}

// Service routes normalize calls to the adapter owning a target.
type Service struct {
	store       Storage
	adapters    map[string]Normalizer
	resolve     func(string) (string, bool)
	logger      *slog.Logger
	concurrency int
	mu          sync.RWMutex
}

// NewService creates a Service over store serving the given adapters.
func NewService(store Storage, adapters []Normalizer, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	m := make(map[string]Normalizer, len(adapters))
	for _, a := range adapters {
		m[a.Target()] = a
	}

	return &Service{
		store:       store,
		adapters:    m,
		resolve:     cfg.Resolve,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Storage exposes the backing storage.
func (s *Service) Storage() Storage {
	return s.store
}

// Targets returns the served target names, sorted.
func (s *Service) Targets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.adapters))
	for name := range s.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Adapter returns the adapter for target. Aliases are accepted when the
// service was configured with a resolver.
func (s *Service) Adapter(target string) (Normalizer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.adapters[target]; ok {
		return a, nil
	}
	if s.resolve != nil {
		if name, ok := s.resolve(target); ok {
			if a, ok := s.adapters[name]; ok {
				return a, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
}

// Normalize runs target's adapter on props and persists the result under adapterID.
// Validation failures come back as error-variant results; the returned error is
// reserved for unknown targets and storage failures.
func (s *Service) Normalize(ctx context.Context, target, adapterID, props string) (Result, error) {
	a, err := s.Adapter(target)
	if err != nil {
		return Result{}, err
	}
	return a.Normalize(ctx, adapterID, props)
}

// NormalizeAll runs every request concurrently and returns results in request order.
// Distinct adapter ids never interfere; requests sharing an id are last-writer-wins.
func (s *Service) NormalizeAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := s.Normalize(ctx, req.Target, req.Adapter, req.Props)
			if err != nil {
				if errors.Is(err, ErrUnknownTarget) {
					results[i] = Failure(err, err.Error())
					return nil
				}
				return fmt.Errorf("request %d (%s/%s): %w", i, req.Target, req.Adapter, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("batch normalized", "requests", len(reqs))
	return results, nil
}

// Record returns the persisted outcome for adapterID under target.
func (s *Service) Record(ctx context.Context, target, adapterID string) (AdapterRecord, error) {
	if adapterID == "" {
		return AdapterRecord{}, ErrEmptyAdapterID
	}
	a, err := s.Adapter(target)
	if err != nil {
		return AdapterRecord{}, err
	}
	return a.Record(ctx, adapterID)
}

// Records returns persisted outcomes under target matching filter.
func (s *Service) Records(ctx context.Context, target string, filter Record) ([]AdapterRecord, error) {
	a, err := s.Adapter(target)
	if err != nil {
		return nil, err
	}
	return a.Records(ctx, filter)
}

// Watch observes record changes if the storage supports it.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("storage does not support watching")
	}
	return w.Watch(ctx, pattern)
}
