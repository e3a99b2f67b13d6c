package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/Itshalffull/propbind/pkg/core"
)

// Watch emits change events for records whose "kind/id" matches pattern
// (doublestar syntax, "" or "**" for everything). The channel is closed
// when ctx is cancelled.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	events := make(chan core.Event)
	w := newWatchWorker(r, pattern, events)
	w.owned = true
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// Reconcile compares the index with the files on disk, refreshes the index
// and returns one event per record created, modified or deleted since the
// index was last written.
func (r *Repository) Reconcile(ctx context.Context) ([]core.Event, error) {
	if err := r.cache.Load(); err != nil {
		return nil, err
	}

	kinds, err := r.Kinds()
	if err != nil {
		return nil, fmt.Errorf("failed to list kinds: %w", err)
	}

	now := time.Now().Unix()
	var events []core.Event
	seen := make(map[string]bool)

	for _, kind := range kinds {
		dir := r.kindDir(kind)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, d := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path := filepath.Join(dir, d.Name())
			if d.IsDir() || r.shouldIgnore(path) {
				continue
			}
			_, id, err := r.resolveKey(path)
			if err != nil {
				continue
			}
			info, err := d.Info()
			if err != nil {
				continue
			}

			rel := r.relPath(path)
			seen[rel] = true
			if _, hit := r.cache.Get(rel, info.ModTime()); hit {
				continue
			}

			eType := core.EventModify
			if !r.cache.Has(rel) {
				eType = core.EventCreate
			}

			rec, err := r.readFile(path, filepath.Ext(path))
			if err != nil {
				continue
			}
			r.cache.Set(rel, &indexEntry{Kind: kind, ID: id, Record: rec, LastModified: info.ModTime()})
			events = append(events, core.Event{Type: eType, Kind: kind, ID: id, Timestamp: now})
		}
	}

	r.cache.Range(func(p string, e *indexEntry) bool {
		if !seen[p] {
			events = append(events, core.Event{Type: core.EventDelete, Kind: e.Kind, ID: e.ID, Timestamp: now})
		}
		return true
	})
	r.cache.Prune("", seen)

	if !r.readOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to save index", "error", err)
		}
	}
	r.recordReconcile()
	return events, nil
}

// watchDirs registers the root and every kind directory with watcher.
func (r *Repository) watchDirs(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(r.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}
	kinds, err := r.Kinds()
	if err != nil {
		return err
	}
	for _, kind := range kinds {
		if err := watcher.Add(r.kindDir(kind)); err != nil {
			return fmt.Errorf("failed to watch kind %s: %w", kind, err)
		}
	}
	return nil
}

// isKindDir reports whether path is a directory directly under the root.
func (r *Repository) isKindDir(path string) bool {
	if filepath.Dir(path) != filepath.Clean(r.Path) {
		return false
	}
	name := filepath.Base(path)
	if name == r.config.SystemDir || strings.HasPrefix(name, ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// shouldIgnore filters temp files, the system directory and unknown formats.
func (r *Repository) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return true
	}
	rel := r.relPath(path)
	if rel == r.config.SystemDir || strings.HasPrefix(rel, r.config.SystemDir+"/") {
		return true
	}
	_, ok := r.serializers[filepath.Ext(base)]
	return !ok
}

func (r *Repository) matchesPattern(kind, id, pattern string) bool {
	if pattern == "" || pattern == "**" {
		return true
	}
	ok, err := doublestar.Match(pattern, kind+"/"+id)
	return err == nil && ok
}
