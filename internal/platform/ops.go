package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Itshalffull/propbind/pkg/adapters/fs"
	"github.com/Itshalffull/propbind/pkg/adapters/memory"
	"github.com/Itshalffull/propbind/pkg/adapters/sqlite"
	"github.com/Itshalffull/propbind/pkg/core"
)

// Init opens and initializes the storage selected by opts.
// The uri argument is backend-specific: a directory for "fs", a database
// file for "sqlite" and ignored for "memory".
func Init(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStorage(context.Background(), uri, o)
}

func initStorage(ctx context.Context, uri string, o *options) (core.Storage, error) {
	if o.storage != nil {
		return o.storage, nil
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	readOnly, _ := o.config["read_only"].(bool)

	var store core.Storage
	switch o.backend {
	case BackendFS, "":
		store = initFS(uri, o, logger)
	case BackendMemory:
		store = memory.New()
	case BackendSQLite:
		if uri == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		store = sqlite.New(sqlite.Config{Path: uri, ReadOnly: readOnly, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown backend: %s", o.backend)
	}

	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", o.backend, err)
	}
	logger.Debug("storage initialized", "backend", o.backend, "uri", uri)
	return store, nil
}

// initFS builds the filesystem backend from the generic option map.
func initFS(path string, o *options, logger *slog.Logger) *fs.Repository {
	systemDir, _ := o.config["system_dir"].(string)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	format, _ := o.config["format"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if path == "" {
		path = "."
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		MustExist:    mustExist,
		ReadOnly:     readOnly,
		Logger:       logger,
		SystemDir:    systemDir,
		Format:       format,
		ErrorHandler: errorHandler,
	})
}
