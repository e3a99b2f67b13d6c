package targets

import (
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
)

// SignalPrefix marks GTK signal connections in the output.
const SignalPrefix = "__signal:"

// GTKSpec describes GTK widgets: handlers become g_signal_connect
// registrations and plain props become property assignments.
func GTKSpec() adapter.Spec {
	return adapter.Spec{
		Name:        GTK,
		Description: "GTK signals, ATK accessibility and widget properties",
		Aliases:     []string{"gtk4", "gtk3"},
		Events: adapter.NewTable(map[string]string{
			"click":      "clicked",
			"change":     "changed",
			"activate":   "activate",
			"focus":      "focus-in-event",
			"blur":       "focus-out-event",
			"keydown":    "key-press-event",
			"keyup":      "key-release-event",
			"mouseenter": "enter-notify-event",
			"mouseleave": "leave-notify-event",
			"scroll":     "scroll-event",
			"destroy":    "destroy",
			"show":       "show",
			"hide":       "hide",
			"resize":     "size-allocate",
		}),
		EventStyle: adapter.EventStyle{
			Key:      func(signal string) string { return SignalPrefix + signal },
			Fallback: adapter.DashCase,
			Value: func(signal string, handler any) any {
				return map[string]any{"signal": signal, "handler": handler}
			},
		},
		Rules: map[core.KeyClass]adapter.Rule{
			core.ClassAccessibility: adapter.Accessibility("atk-", nil),
			core.ClassStyleClass:    adapter.Rename("__cssClass"),
			core.ClassInlineStyle:   adapter.Rename("__gtkStyle"),
		},
		PassThrough: adapter.Property(),
	}
}
