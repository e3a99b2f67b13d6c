package targets

import (
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
)

// WatchOSSpec describes watchOS: a reduced SwiftUI gesture set, the Digital
// Crown for scrolling and no pointer or keyboard input. Unsupported events
// are emitted under adapter.UnsupportedPrefix.
func WatchOSSpec() adapter.Spec {
	return adapter.Spec{
		Name:        WatchOS,
		Description: "watchOS gestures and Digital Crown input",
		Aliases:     []string{"watch", "applewatch"},
		Events: adapter.NewTable(map[string]string{
			"click":     "onTapGesture",
			"longpress": "onLongPressGesture",
			"change":    "onChange",
			"appear":    "onAppear",
			"disappear": "onDisappear",
			"scroll":    "digitalCrownRotation",
		}),
		Unsupported: adapter.NewEventSet(
			"doubleclick", "drag", "drop", "hover",
			"mouseenter", "mouseleave", "keydown", "keyup",
			"resize", "contextmenu",
		),
		EventStyle: adapter.EventStyle{Fallback: upperOn},
		Rules: map[core.KeyClass]adapter.Rule{
			core.ClassAccessibility: adapter.Accessibility("accessibility", adapter.PascalCase),
			core.ClassStyleClass:    adapter.Rename("__styleClass"),
			core.ClassInlineStyle:   adapter.Rename("__modifiers"),
		},
	}
}
