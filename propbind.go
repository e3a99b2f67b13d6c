package propbind

import (
	"fmt"
	"log/slog"

	"github.com/Itshalffull/propbind/internal/platform"
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
	"github.com/Itshalffull/propbind/pkg/targets"
	"github.com/Itshalffull/propbind/pkg/typed"
)

// --- Types ---

// Service routes normalize calls to the six target adapters.
type Service = core.Service

// Result is the outcome of a normalize call.
type Result = core.Result

// Record is the persisted outcome of a normalize call.
type Record = core.AdapterRecord

// Request is one entry of a batch normalize.
type Request = core.Request

// Overrides are table entries merged on top of a built-in target.
type Overrides = adapter.Overrides

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// Backend names accepted by WithBackend.
const (
	BackendFS     = platform.BackendFS
	BackendMemory = platform.BackendMemory
	BackendSQLite = platform.BackendSQLite
)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage allows injecting a custom storage backend.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithBackend selects the storage backend by name.
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithSystemDir sets the hidden directory of the fs backend (default ".propbind").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist ensures the store directory already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithFormat sets the fs record format (".json" or ".yaml").
func WithFormat(ext string) Option {
	return platform.WithFormat(ext)
}

// WithTables merges mapping overrides into the built-in targets.
func WithTables(overrides map[string]Overrides) Option {
	return platform.WithTables(overrides)
}

// WithTablesFile loads mapping overrides from a YAML file.
func WithTablesFile(path string) Option {
	return platform.WithTablesFile(path)
}

// WithConcurrency bounds batch normalization.
func WithConcurrency(n int) Option {
	return platform.WithConcurrency(n)
}

// WithWatcherErrorHandler receives asynchronous watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Service storing records at uri.
func New(uri string, opts ...Option) (*Service, error) {
	return platform.New(uri, opts...)
}

// Init opens and initializes a storage backend without the adapters.
func Init(uri string, opts ...Option) (core.Storage, error) {
	return platform.Init(uri, opts...)
}

// OpenRecords returns a typed view over the records of one target. The
// target may be a name or an alias.
func OpenRecords(storage core.Storage, target string) (*typed.Store[Record], error) {
	name, ok := targets.Resolve(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownTarget, target)
	}
	return typed.NewStore[Record](storage, adapter.KindPrefix+name), nil
}

// --- Utils ---

// ConfigFile is the project configuration file name.
const ConfigFile = platform.ConfigFile

// FindRoot looks upwards for a directory holding .propbind or propbind.toml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
