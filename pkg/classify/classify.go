// Package classify assigns a core.KeyClass to a property key.
//
// Classification is an ordered list of (predicate, class) rules evaluated top
// to bottom; the first match wins. Every adapter shares this order, which is
// why "aria-onclick" is accessibility and never an event handler.
package classify

import (
	"strings"

	"github.com/Itshalffull/propbind/pkg/core"
)

// Prefixes and literals recognized by the classifier. Matching is
// case-insensitive.
const (
	AriaPrefix   = "aria-"
	DataPrefix   = "data-"
	EventPrefix  = "on"
	BindPrefix   = "bind:"
	ShorthandSig = "$"

	ClassKey  = "class"
	StyleKey  = "style"
	LayoutKey = "layout"
	RefKey    = "ref"
)

// Rule is one entry of the decision list.
type Rule struct {
	Name  string
	Class core.KeyClass
	Match func(lower string) bool
}

var rules = []Rule{
	{"aria- prefix", core.ClassAccessibility, prefix(AriaPrefix)},
	{"data- prefix", core.ClassDataAttribute, prefix(DataPrefix)},
	{"class literal", core.ClassStyleClass, literal(ClassKey)},
	{"on prefix", core.ClassEventHandler, func(k string) bool {
		return len(k) > len(EventPrefix) && strings.HasPrefix(k, EventPrefix)
	}},
	{"style literal", core.ClassInlineStyle, literal(StyleKey)},
	{"layout literal", core.ClassLayout, literal(LayoutKey)},
	{"bind: or $ prefix", core.ClassBindingDirective, func(k string) bool {
		return strings.HasPrefix(k, BindPrefix) || strings.HasPrefix(k, ShorthandSig)
	}},
	{"ref literal", core.ClassLifecycleRef, literal(RefKey)},
}

// Classify returns the class of key. It is pure and total: keys matching no
// rule are pass-through.
func Classify(key string) core.KeyClass {
	lower := strings.ToLower(key)
	for _, r := range rules {
		if r.Match(lower) {
			return r.Class
		}
	}
	return core.ClassPassThrough
}

// Rules returns a copy of the decision list in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// EventName strips the "on" prefix and lowercases the rest, yielding the
// canonical event name used for table lookups ("onClick" -> "click").
func EventName(key string) string {
	return strings.ToLower(EventStem(key))
}

// EventStem strips the "on" prefix keeping the original casing
// ("onPointerMove" -> "PointerMove"). Fallback names are built from it.
func EventStem(key string) string {
	if len(key) <= len(EventPrefix) {
		return ""
	}
	return key[len(EventPrefix):]
}

func prefix(p string) func(string) bool {
	return func(k string) bool { return strings.HasPrefix(k, p) }
}

func literal(l string) func(string) bool {
	return func(k string) bool { return k == l }
}
