// Package adapter implements the target adapter shared by every UI framework.
//
// An Adapter is built from a Spec: the per-target tables plus one Rule per
// core.KeyClass. Normalize parses a JSON prop set, rewrites every key through
// the rule of its class and persists the serialized binding.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/Itshalffull/propbind/pkg/classify"
	"github.com/Itshalffull/propbind/pkg/core"
	"github.com/Itshalffull/propbind/pkg/typed"
)

// KindPrefix prefixes the storage kind of every adapter ("output.compose").
const KindPrefix = "output."

// ConflictPrefix marks an entry whose rewritten key was already taken by an
// earlier key of the same prop set.
const ConflictPrefix = "__conflict:"

// Messages carried by error results.
const (
	MsgEmptyInput     = "Props cannot be empty"
	MsgInvalidJSON    = "Props must be valid JSON"
	MsgNotObject      = "Props must be a JSON object"
	MsgEmptyAdapterID = "Adapter id cannot be empty"
)

// Spec is the immutable description of one target.
type Spec struct {
	Name        string
	Description string
	Aliases     []string

	Events      Table
	Unsupported EventSet
	EventStyle  EventStyle

	// Layouts maps a layout kind to a container name. An empty table means
	// the target has no container concept and layout keys pass through.
	Layouts      Table
	LayoutMarker string

	// Rules holds the per-class strategies. Event handler and layout rules
	// are derived from the tables above; classes without a rule use PassThrough.
	Rules       map[core.KeyClass]Rule
	PassThrough Rule
}

// Overrides are table entries merged on top of a Spec.
type Overrides struct {
	Events      map[string]string `yaml:"events,omitempty"`
	Layouts     map[string]string `yaml:"layouts,omitempty"`
	Unsupported []string          `yaml:"unsupported,omitempty"`
}

// Merge returns o with over layered on top, field by field. Table keys are
// compared case-insensitively; over wins on a shared key.
func (o Overrides) Merge(over Overrides) Overrides {
	return Overrides{
		Events:      mergeEntries(o.Events, over.Events),
		Layouts:     mergeEntries(o.Layouts, over.Layouts),
		Unsupported: mergeNames(o.Unsupported, over.Unsupported),
	}
}

func mergeEntries(base, over map[string]string) map[string]string {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[strings.ToLower(k)] = v
	}
	for k, v := range over {
		out[strings.ToLower(k)] = v
	}
	return out
}

func mergeNames(base, over []string) []string {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(base)+len(over))
	var out []string
	for _, n := range append(append([]string(nil), base...), over...) {
		n = strings.ToLower(n)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// WithOverrides returns a copy of s with o merged into its tables.
func (s Spec) WithOverrides(o Overrides) Spec {
	if len(o.Events) > 0 {
		s.Events = s.Events.Merge(o.Events)
	}
	if len(o.Layouts) > 0 {
		s.Layouts = s.Layouts.Merge(o.Layouts)
	}
	if len(o.Unsupported) > 0 {
		s.Unsupported = s.Unsupported.Union(o.Unsupported...)
	}
	return s
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Adapter rewrites prop sets for one target and persists the outcome.
type Adapter struct {
	spec   Spec
	rules  map[core.KeyClass]Rule
	store  *typed.Store[core.AdapterRecord]
	logger *slog.Logger
}

// New builds an Adapter for spec persisting into storage.
func New(spec Spec, storage core.Storage, opts ...Option) *Adapter {
	a := &Adapter{
		spec:   spec,
		store:  typed.NewStore[core.AdapterRecord](storage, KindPrefix+spec.Name),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}

	pass := spec.PassThrough
	if pass == nil {
		pass = Copy()
	}

	rules := make(map[core.KeyClass]Rule, len(core.KeyClasses()))
	for _, class := range core.KeyClasses() {
		if r, ok := spec.Rules[class]; ok && r != nil {
			rules[class] = r
		} else {
			rules[class] = pass
		}
	}
	rules[core.ClassDataAttribute] = Copy()
	rules[core.ClassEventHandler] = Events(spec.Events, spec.Unsupported, spec.EventStyle)
	if spec.Layouts.Len() > 0 {
		rules[core.ClassLayout] = Layout(spec.Layouts, spec.LayoutMarker)
	}
	a.rules = rules

	return a
}

// Target returns the canonical target name.
func (a *Adapter) Target() string { return a.spec.Name }

// Kind returns the storage kind records are persisted under.
func (a *Adapter) Kind() string { return a.store.Kind() }

// Spec returns the target description the adapter was built from.
func (a *Adapter) Spec() Spec { return a.spec }

// Transform rewrites props without persisting. Keys are processed in sorted
// order; conflicts lists the source keys moved under ConflictPrefix.
func (a *Adapter) Transform(props core.PropSet) (binding core.Binding, conflicts []string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	binding = make(core.Binding, len(props))
	for _, k := range keys {
		class := classify.Classify(k)
		key, value := a.rules[class](Entry{Key: k, Value: props[k], Class: class})

		if _, taken := binding[key]; taken {
			key = ConflictPrefix + k
			for {
				if _, taken := binding[key]; !taken {
					break
				}
				key = ConflictPrefix + key
			}
			conflicts = append(conflicts, k)
		}
		binding[key] = value
	}
	return binding, conflicts
}

// Normalize parses props, rewrites it and persists the result under adapterID.
// Invalid input yields an error-variant result and leaves storage untouched.
// A non-nil error means the storage write failed.
func (a *Adapter) Normalize(ctx context.Context, adapterID, props string) (core.Result, error) {
	if strings.TrimSpace(adapterID) == "" {
		return core.Failure(core.ErrEmptyAdapterID, MsgEmptyAdapterID), nil
	}

	set, fail := Parse(props)
	if fail != nil {
		return *fail, nil
	}

	binding, conflicts := a.Transform(set)
	if len(conflicts) > 0 {
		a.logger.Warn("conflicting output keys", "target", a.spec.Name, "adapter", adapterID, "keys", conflicts)
	}

	normalized, err := Encode(binding)
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to encode binding for %s: %w", adapterID, err)
	}

	rec := core.AdapterRecord{Adapter: adapterID, Target: a.spec.Name, Normalized: normalized}
	if err := a.store.Put(ctx, adapterID, rec); err != nil {
		if !errors.Is(err, core.ErrBackend) {
			err = &core.BackendError{Op: "put", Kind: a.Kind(), ID: adapterID, Err: err}
		}
		return core.Result{}, err
	}

	a.logger.Debug("normalized", "target", a.spec.Name, "adapter", adapterID, "keys", len(binding))
	return core.OK(adapterID, normalized), nil
}

// Record returns the persisted outcome for adapterID.
func (a *Adapter) Record(ctx context.Context, adapterID string) (core.AdapterRecord, error) {
	if adapterID == "" {
		return core.AdapterRecord{}, core.ErrEmptyAdapterID
	}
	return a.store.Get(ctx, adapterID)
}

// Records returns persisted outcomes matching filter (see core.Match).
func (a *Adapter) Records(ctx context.Context, filter core.Record) ([]core.AdapterRecord, error) {
	return a.store.Find(ctx, filter)
}

// Parse decodes props into a PropSet. On failure it returns the error result
// to hand back to the caller.
func Parse(props string) (core.PropSet, *core.Result) {
	if strings.TrimSpace(props) == "" {
		r := core.Failure(core.ErrEmptyInput, MsgEmptyInput)
		return nil, &r
	}

	dec := json.NewDecoder(strings.NewReader(props))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		r := core.Failure(fmt.Errorf("%w: %v", core.ErrInvalidJSON, err), MsgInvalidJSON+": "+err.Error())
		return nil, &r
	}
	if _, err := dec.Token(); err != io.EOF {
		r := core.Failure(core.ErrInvalidJSON, MsgInvalidJSON+": unexpected data after top-level value")
		return nil, &r
	}

	obj, ok := v.(map[string]any)
	if !ok {
		r := core.Failure(core.ErrInvalidJSON, MsgNotObject)
		return nil, &r
	}
	return core.PropSet(obj), nil
}

// Encode serializes a binding deterministically: keys sorted, HTML left
// unescaped, no trailing newline.
func Encode(b core.Binding) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(b)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
