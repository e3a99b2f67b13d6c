package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
	"github.com/Itshalffull/propbind/pkg/tables"
	"github.com/Itshalffull/propbind/pkg/targets"
)

// New wires storage, the six target adapters and the routing service.
//
//	svc, err := platform.New("./store", platform.WithBackend("sqlite"))
//
// The uri argument is backend-specific (see Init).
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	overrides, err := collectOverrides(o)
	if err != nil {
		return nil, err
	}
	specs, err := targets.All(overrides)
	if err != nil {
		return nil, err
	}

	store, err := initStorage(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}

	normalizers := make([]core.Normalizer, 0, len(specs))
	for _, spec := range specs {
		normalizers = append(normalizers, adapter.New(spec, store, adapter.WithLogger(logger)))
	}

	return core.NewService(store, normalizers, core.ServiceConfig{
		Logger:      logger,
		Concurrency: o.concurrency,
		Resolve:     targets.Resolve,
	}), nil
}

// collectOverrides layers WithTables entries over the tables file (if any).
// Both sides are keyed by canonical target first, so a name and an alias of
// the same target merge field by field and code always wins.
func collectOverrides(o *options) (map[string]adapter.Overrides, error) {
	var fromFile map[string]adapter.Overrides
	if o.tablesFile != "" {
		f, err := tables.LoadFile(o.tablesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tables: %w", err)
		}
		if fromFile, err = targets.ResolveOverrides(f.Targets); err != nil {
			return nil, fmt.Errorf("invalid tables file %s: %w", o.tablesFile, err)
		}
	}
	fromCode, err := targets.ResolveOverrides(o.overrides)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]adapter.Overrides, len(fromFile)+len(fromCode))
	for name, ov := range fromFile {
		merged[name] = ov
	}
	for name, ov := range fromCode {
		merged[name] = merged[name].Merge(ov)
	}
	return merged, nil
}
