package adapter

import (
	"strings"

	"github.com/Itshalffull/propbind/pkg/classify"
	"github.com/Itshalffull/propbind/pkg/core"
)

// Entry is one classified input property.
type Entry struct {
	Key   string
	Value any
	Class core.KeyClass
}

// Rule rewrites one entry into an output key and value.
type Rule func(e Entry) (key string, value any)

// Copy keeps key and value unchanged.
func Copy() Rule {
	return func(e Entry) (string, any) { return e.Key, e.Value }
}

// Rename moves the value to a fixed slot key.
func Rename(slot string) Rule {
	return func(e Entry) (string, any) { return slot, e.Value }
}

// RewritePrefix replaces a matched prefix of n bytes with to. recase, when
// set, is applied to the remainder ("aria-label" -> "accessibility" + "Label").
func RewritePrefix(n int, to string, recase func(string) string) Rule {
	return func(e Entry) (string, any) {
		rest := ""
		if len(e.Key) > n {
			rest = e.Key[n:]
		}
		if recase != nil {
			rest = recase(rest)
		}
		return to + rest, e.Value
	}
}

// Accessibility rewrites the aria- prefix to the target's prefix.
func Accessibility(to string, recase func(string) string) Rule {
	return RewritePrefix(len(classify.AriaPrefix), to, recase)
}

// ClassSet emits a space-separated class string as a set of class -> true
// under slot. Non-string values are kept as they are.
func ClassSet(slot string) Rule {
	return func(e Entry) (string, any) {
		s, ok := e.Value.(string)
		if !ok {
			return slot, e.Value
		}
		set := make(map[string]any)
		for _, name := range strings.Fields(s) {
			set[name] = true
		}
		return slot, set
	}
}

// Directive normalizes two-way binding keys: "bind:x" stays "bind:x" and the
// "$x" shorthand becomes "bind:x".
func Directive() Rule {
	return func(e Entry) (string, any) {
		if strings.HasPrefix(e.Key, classify.ShorthandSig) {
			return classify.BindPrefix + e.Key[len(classify.ShorthandSig):], e.Value
		}
		return classify.BindPrefix + e.Key[len(classify.BindPrefix):], e.Value
	}
}

// Wrap moves the value to slot after passing it through wrap.
func Wrap(slot string, wrap func(any) any) Rule {
	return func(e Entry) (string, any) { return slot, wrap(e.Value) }
}

// RefDescriptor wraps a ref value as {"__ref": true, "current": value}.
func RefDescriptor(v any) any {
	return map[string]any{"__ref": true, "current": v}
}

// Property keeps the key and wraps the value as a property assignment
// {"property": key, "value": value}.
func Property() Rule {
	return func(e Entry) (string, any) {
		return e.Key, map[string]any{"property": e.Key, "value": e.Value}
	}
}

// EventStyle describes how a target renders event handlers.
type EventStyle struct {
	// Key builds the output key from a native name. Nil uses the name as is.
	Key func(native string) string
	// Fallback synthesizes a native name from the stripped event stem
	// ("onWhatever" -> "Whatever") when the table has no entry.
	Fallback func(stem string) string
	// Value builds the output value. Nil keeps the handler unchanged.
	Value func(native string, handler any) any
}

// UnsupportedPrefix marks events the target platform cannot host.
const UnsupportedPrefix = "__unsupported:"

// Events builds the event-handler rule: unsupported set first, then the
// table, then the fallback synthesizer.
func Events(table Table, unsupported EventSet, style EventStyle) Rule {
	return func(e Entry) (string, any) {
		name := classify.EventName(e.Key)
		if unsupported.Contains(name) {
			return UnsupportedPrefix + e.Key, e.Value
		}

		native, ok := table.Lookup(name)
		if !ok {
			stem := classify.EventStem(e.Key)
			if style.Fallback != nil {
				native = style.Fallback(stem)
			} else {
				native = name
			}
		}

		key := native
		if style.Key != nil {
			key = style.Key(native)
		}
		if style.Value != nil {
			return key, style.Value(native, e.Value)
		}
		return key, e.Value
	}
}

// Layout builds the layout rule: the layout kind is read from a string value
// or from a "type", "kind" or "direction" field of an object value, then
// resolved through table. Resolved kinds emit under marker:Container,
// unresolved ones under marker. The value is kept unchanged.
func Layout(table Table, marker string) Rule {
	return func(e Entry) (string, any) {
		if container, ok := table.Lookup(layoutKind(e.Value)); ok {
			return marker + ":" + container, e.Value
		}
		return marker, e.Value
	}
}

func layoutKind(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for _, field := range []string{"type", "kind", "direction"} {
			if s, ok := t[field].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
