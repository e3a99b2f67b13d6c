package adapter

import (
	"sort"
	"strings"
)

// Table is an immutable lookup from a canonical name to a native construct.
// Keys are stored lowercased; the zero value is an empty table.
type Table struct {
	entries map[string]string
}

// NewTable copies m into a Table.
func NewTable(m map[string]string) Table {
	entries := make(map[string]string, len(m))
	for k, v := range m {
		entries[strings.ToLower(k)] = v
	}
	return Table{entries: entries}
}

// Lookup returns the native name for a canonical name.
func (t Table) Lookup(name string) (string, bool) {
	v, ok := t.entries[strings.ToLower(name)]
	return v, ok
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.entries)
}

// Merge returns a new table with over applied on top of t. t is unchanged.
func (t Table) Merge(over map[string]string) Table {
	merged := make(map[string]string, len(t.entries)+len(over))
	for k, v := range t.entries {
		merged[k] = v
	}
	for k, v := range over {
		merged[strings.ToLower(k)] = v
	}
	return Table{entries: merged}
}

// Entries returns a copy of the table contents.
func (t Table) Entries() map[string]string {
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Names returns the canonical names, sorted.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for k := range t.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// EventSet is an immutable set of canonical event names.
type EventSet struct {
	names map[string]struct{}
}

// NewEventSet builds a set from canonical event names ("drag", not "onDrag").
func NewEventSet(names ...string) EventSet {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return EventSet{names: set}
}

// Contains reports whether the canonical event name is in the set.
func (s EventSet) Contains(name string) bool {
	_, ok := s.names[strings.ToLower(name)]
	return ok
}

// Len returns the number of names.
func (s EventSet) Len() int {
	return len(s.names)
}

// Union returns a new set holding s and names.
func (s EventSet) Union(names ...string) EventSet {
	all := s.Names()
	return NewEventSet(append(all, names...)...)
}

// Names returns the set contents, sorted.
func (s EventSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

