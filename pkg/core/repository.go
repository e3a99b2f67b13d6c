package core

import "context"

// Storage defines the contract for persisting records.
// Adhering to this interface keeps the adapters independent of the underlying
// storage mechanism (memory, filesystem, SQLite).
//
// Implementations provide read-your-write consistency and single-key
// atomicity. Nothing stronger is assumed.
type Storage interface {
	// Get retrieves a record. Missing records return an error matching ErrNotFound.
	Get(ctx context.Context, kind, id string) (Record, error)

	// Put persists a record, replacing any previous one (upsert).
	Put(ctx context.Context, kind, id string, rec Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, kind, id string) error

	// Find returns every record of the given kind matching filter (see Match).
	// A nil filter matches everything.
	Find(ctx context.Context, kind string, filter Record) ([]Record, error)

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by storages that can report changes.
type Watchable interface {
	// Watch emits events for records whose "kind/id" matches pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
