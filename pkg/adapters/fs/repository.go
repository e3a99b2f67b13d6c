// Package fs stores records as one file per record under a root directory:
//
//	<root>/<kind>/<id><ext>
//
// Kinds and ids are path-escaped, so any string is a valid id. A JSON index
// under the system directory caches parsed records by mtime for Find.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Itshalffull/propbind/pkg/core"
)

// DefaultSystemDir holds the index and other private state.
const DefaultSystemDir = ".propbind"

// Repository implements core.Storage on the filesystem.
type Repository struct {
	Path        string
	config      Config
	cache       *cache
	serializers map[string]Serializer
	writer      Serializer
	readOnly    bool

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".propbind"
	// Format is the extension new records are written with (".json" or ".yaml").
	Format string
	// ErrorHandler receives asynchronous watcher errors.
	ErrorHandler func(error)
}

// NewRepository creates a filesystem-backed storage.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Format == "" {
		config.Format = ".json"
	}
	if !strings.HasPrefix(config.Format, ".") {
		config.Format = "." + config.Format
	}

	serializers := DefaultSerializers()
	writer, ok := serializers[config.Format]
	if !ok {
		config.Format = ".json"
		writer = serializers[".json"]
	}

	return &Repository{
		Path:        config.Path,
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: serializers,
		writer:      writer,
		readOnly:    config.ReadOnly,
	}
}

// Initialize creates the root and system directories.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
		if r.readOnly {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// IsReadOnly reports whether writes are rejected.
func (r *Repository) IsReadOnly() bool {
	return r.readOnly
}

// Put writes rec under (kind, id), replacing any previous file.
//
// Workflow:
//  1. Reject writes in read-only mode.
//  2. Serialize with the configured format and write atomically.
//  3. Remove copies of the same record left in other formats.
//  4. Refresh the index entry.
func (r *Repository) Put(ctx context.Context, kind, id string, rec core.Record) error {
	if r.readOnly {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: core.ErrReadOnly}
	}
	if err := validKey(kind, id); err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: err}
	}

	dir := r.kindDir(kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: fmt.Errorf("failed to create directories: %w", err)}
	}

	data, err := r.writer.Serialize(rec)
	if err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: fmt.Errorf("failed to serialize record: %w", err)}
	}

	fullPath := r.recordPath(kind, id, r.config.Format)
	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return &core.BackendError{Op: "put", Kind: kind, ID: id, Err: err}
	}

	for ext := range r.serializers {
		if ext == r.config.Format {
			continue
		}
		stale := r.recordPath(kind, id, ext)
		if err := os.Remove(stale); err == nil {
			r.cache.Delete(r.relPath(stale))
		}
	}

	if info, err := os.Stat(fullPath); err == nil {
		parsed, err := r.writer.Parse(bytes.NewReader(data))
		if err == nil {
			r.cache.Set(r.relPath(fullPath), &indexEntry{Kind: kind, ID: id, Record: parsed, LastModified: info.ModTime()})
		}
	}

	r.config.Logger.Debug("record written", "kind", kind, "id", id, "path", fullPath)
	return nil
}

// Get reads the record stored under (kind, id).
func (r *Repository) Get(ctx context.Context, kind, id string) (core.Record, error) {
	if err := validKey(kind, id); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNotFound, err)
	}

	for _, ext := range r.extensions() {
		rec, err := r.readFile(r.recordPath(kind, id, ext), ext)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &core.BackendError{Op: "get", Kind: kind, ID: id, Err: err}
		}
		return rec, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
}

// Delete removes the record under (kind, id). Deleting a missing record is
// not an error.
func (r *Repository) Delete(ctx context.Context, kind, id string) error {
	if r.readOnly {
		return &core.BackendError{Op: "delete", Kind: kind, ID: id, Err: core.ErrReadOnly}
	}
	if err := validKey(kind, id); err != nil {
		return &core.BackendError{Op: "delete", Kind: kind, ID: id, Err: err}
	}

	for ext := range r.serializers {
		path := r.recordPath(kind, id, ext)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return &core.BackendError{Op: "delete", Kind: kind, ID: id, Err: fmt.Errorf("failed to remove file: %w", err)}
		}
		r.cache.Delete(r.relPath(path))
	}
	return nil
}

// Find lists every record of kind matching filter, sorted by id.
//
// Unchanged files are served from the index; the index is saved afterwards
// unless the repository is read-only.
func (r *Repository) Find(ctx context.Context, kind string, filter core.Record) ([]core.Record, error) {
	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("failed to load index, starting empty", "error", err)
	}

	dir := r.kindDir(kind)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, &core.BackendError{Op: "find", Kind: kind, Err: err}
	}

	type found struct {
		id  string
		rec core.Record
	}
	var all []found
	seen := make(map[string]bool)

	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), TempFilePrefix) {
			continue
		}
		ext := filepath.Ext(d.Name())
		if _, ok := r.serializers[ext]; !ok {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(d.Name(), ext))
		if err != nil {
			continue
		}

		info, err := d.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, d.Name())
		rel := r.relPath(path)
		seen[rel] = true

		if entry, hit := r.cache.Get(rel, info.ModTime()); hit {
			all = append(all, found{id: id, rec: entry.Record})
			continue
		}

		rec, err := r.readFile(path, ext)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable record", "path", path, "error", err)
			continue
		}
		r.cache.Set(rel, &indexEntry{Kind: kind, ID: id, Record: rec, LastModified: info.ModTime()})
		all = append(all, found{id: id, rec: rec})
	}

	r.cache.Prune(r.relPath(dir)+"/", seen)
	if !r.readOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to save index", "error", err)
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })

	out := make([]core.Record, 0, len(all))
	for _, f := range all {
		if core.Match(f.rec, filter) {
			out = append(out, f.rec)
		}
	}
	return out, nil
}

// Kinds lists the kinds present on disk, sorted.
func (r *Repository) Kinds() ([]string, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, err
	}
	var kinds []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == r.config.SystemDir || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		kind, err := url.PathUnescape(e.Name())
		if err != nil {
			continue
		}
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds, nil
}

func (r *Repository) readFile(path, ext string) (core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, ok := r.serializers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
	rec, err := s.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rec, nil
}

// extensions returns the write format first, then the others in a stable order.
func (r *Repository) extensions() []string {
	exts := []string{r.config.Format}
	others := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		if ext != r.config.Format {
			others = append(others, ext)
		}
	}
	sort.Strings(others)
	return append(exts, others...)
}

func (r *Repository) kindDir(kind string) string {
	return filepath.Join(r.Path, url.PathEscape(kind))
}

func (r *Repository) recordPath(kind, id, ext string) string {
	return filepath.Join(r.kindDir(kind), url.PathEscape(id)+ext)
}

func (r *Repository) relPath(path string) string {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// resolveKey maps a record file path back to its (kind, id).
func (r *Repository) resolveKey(path string) (kind, id string, err error) {
	rel := r.relPath(path)
	parts := strings.Split(rel, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("path %s is not a record file", rel)
	}
	ext := filepath.Ext(parts[1])
	if _, ok := r.serializers[ext]; !ok {
		return "", "", fmt.Errorf("unsupported extension %q", ext)
	}
	if kind, err = url.PathUnescape(parts[0]); err != nil {
		return "", "", err
	}
	if id, err = url.PathUnescape(strings.TrimSuffix(parts[1], ext)); err != nil {
		return "", "", err
	}
	return kind, id, nil
}

func validKey(kind, id string) error {
	if kind == "" {
		return errors.New("kind cannot be empty")
	}
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if strings.HasPrefix(kind, ".") || id == "." || id == ".." {
		return fmt.Errorf("invalid key %s/%s", kind, id)
	}
	return nil
}

var _ core.Storage = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
