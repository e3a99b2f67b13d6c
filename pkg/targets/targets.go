// Package targets defines the built-in target specs and resolves user hints
// (names or aliases) to them.
package targets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
)

// Canonical target names.
const (
	Compose     = "compose"
	Svelte      = "svelte"
	SwiftUI     = "swiftui"
	ReactNative = "reactnative"
	GTK         = "gtk"
	WatchOS     = "watchos"
)

// registry maps a canonical target name to its spec constructor.
// Each call returns fresh tables, so callers never share state.
var registry = map[string]func() adapter.Spec{
	Compose:     ComposeSpec,
	Svelte:      SvelteSpec,
	SwiftUI:     SwiftUISpec,
	ReactNative: ReactNativeSpec,
	GTK:         GTKSpec,
	WatchOS:     WatchOSSpec,
}

// Names returns the canonical target names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Canonicalize lowercases a hint and removes spaces, dots, dashes and
// underscores ("React-Native" -> "reactnative").
func Canonicalize(hint string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(hint)))
}

// Resolve maps a target name or alias to its canonical name.
func Resolve(hint string) (string, bool) {
	c := Canonicalize(hint)
	if _, ok := registry[c]; ok {
		return c, true
	}
	for name, build := range registry {
		for _, alias := range build().Aliases {
			if Canonicalize(alias) == c {
				return name, true
			}
		}
	}
	return "", false
}

// Spec returns the spec for a target name or alias.
func Spec(hint string) (adapter.Spec, error) {
	name, ok := Resolve(hint)
	if !ok {
		return adapter.Spec{}, fmt.Errorf("%w: %q", core.ErrUnknownTarget, hint)
	}
	return registry[name](), nil
}

// ResolveOverrides rekeys overrides by canonical target name. Entries whose
// hints resolve to the same target are merged field by field in sorted hint
// order, so the result never depends on map iteration.
func ResolveOverrides(overrides map[string]adapter.Overrides) (map[string]adapter.Overrides, error) {
	hints := make([]string, 0, len(overrides))
	for hint := range overrides {
		hints = append(hints, hint)
	}
	sort.Strings(hints)

	byName := make(map[string]adapter.Overrides, len(overrides))
	for _, hint := range hints {
		name, ok := Resolve(hint)
		if !ok {
			return nil, fmt.Errorf("overrides for %q: %w", hint, core.ErrUnknownTarget)
		}
		byName[name] = byName[name].Merge(overrides[hint])
	}
	return byName, nil
}

// All returns every built-in spec with overrides applied. Override keys may
// be names or aliases; an unknown key is an error.
func All(overrides map[string]adapter.Overrides) ([]adapter.Spec, error) {
	byName, err := ResolveOverrides(overrides)
	if err != nil {
		return nil, err
	}

	specs := make([]adapter.Spec, 0, len(registry))
	for _, name := range Names() {
		spec := registry[name]()
		if o, ok := byName[name]; ok {
			spec = spec.WithOverrides(o)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
