package targets

import (
	"strings"

	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
)

// SwiftUISpec describes SwiftUI view modifiers and stacks.
func SwiftUISpec() adapter.Spec {
	return adapter.Spec{
		Name:        SwiftUI,
		Description: "SwiftUI gestures, modifiers and stacks",
		Aliases:     []string{"swift"},
		Events: adapter.NewTable(map[string]string{
			"click":       "onTapGesture",
			"doubleclick": "onTapGesture(count: 2)",
			"longpress":   "onLongPressGesture",
			"drag":        "onDrag",
			"drop":        "onDrop",
			"appear":      "onAppear",
			"disappear":   "onDisappear",
			"change":      "onChange",
			"submit":      "onSubmit",
		}),
		EventStyle: adapter.EventStyle{Fallback: actionOn},
		Layouts: adapter.NewTable(map[string]string{
			"vertical":   "VStack",
			"column":     "VStack",
			"horizontal": "HStack",
			"row":        "HStack",
			"stack":      "ZStack",
			"overlay":    "ZStack",
			"z":          "ZStack",
			"grid":       "LazyVGrid",
			"list":       "List",
			"scroll":     "ScrollView",
		}),
		LayoutMarker: "__container",
		Rules: map[core.KeyClass]adapter.Rule{
			core.ClassAccessibility: adapter.Accessibility("accessibility", adapter.PascalCase),
			core.ClassStyleClass:    adapter.Rename("__styleClass"),
			core.ClassInlineStyle:   adapter.Rename("__modifiers"),
		},
	}
}

// actionOn lowercases the stem and capitalizes its first letter, matching
// the single-word action names the modifier table uses ("PointerMove" ->
// "onPointermove").
func actionOn(stem string) string {
	return "on" + adapter.UpperFirst(strings.ToLower(stem))
}

// upperOn keeps the stem casing and uppercases its first letter
// ("whatever" -> "onWhatever").
func upperOn(stem string) string {
	return "on" + adapter.UpperFirst(stem)
}
