package platform

import (
	"log/slog"

	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
)

// Backend names accepted by WithBackend.
const (
	BackendFS     = "fs"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// options holds the internal configuration for the service.
type options struct {
	storage     core.Storage
	logger      *slog.Logger
	backend     string
	config      map[string]any
	overrides   map[string]adapter.Overrides
	tablesFile  string
	concurrency int
}

// Option defines a functional option for configuring the service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		backend: BackendFS,
		config:  make(map[string]any),
	}
}

// WithLogger sets the logger shared by the service, the adapters and the storage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects a custom storage. The backend option is then ignored.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithBackend selects the storage backend by name ("fs", "memory", "sqlite").
// Defaults to "fs".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithSystemDir sets the hidden directory of the fs backend.
// Defaults to ".propbind".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithMustExist requires the store path to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly. Normalize still
// validates and transforms, but cannot persist.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithFormat sets the file format of the fs backend (".json" or ".yaml").
func WithFormat(ext string) Option {
	return func(o *options) {
		o.config["format"] = ext
	}
}

// WithWatcherErrorHandler receives errors raised inside the fs watcher loop,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithTables merges mapping overrides into the built-in target tables.
// Keys are target names or aliases.
func WithTables(overrides map[string]adapter.Overrides) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(map[string]adapter.Overrides)
		}
		for k, v := range overrides {
			o.overrides[k] = o.overrides[k].Merge(v)
		}
	}
}

// WithTablesFile loads mapping overrides from a YAML file at construction.
func WithTablesFile(path string) Option {
	return func(o *options) {
		o.tablesFile = path
	}
}

// WithConcurrency bounds batch normalization. Zero means the default (4).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}
