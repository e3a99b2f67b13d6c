package targets

import (
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/core"
)

// ComposeSpec describes Jetpack Compose: handlers become Modifier calls,
// accessibility goes through semantics and layouts pick a container composable.
func ComposeSpec() adapter.Spec {
	return adapter.Spec{
		Name:        Compose,
		Description: "Jetpack Compose modifiers and semantics",
		Aliases:     []string{"jetpackcompose", "jetpack"},
		Events: adapter.NewTable(map[string]string{
			"click":       "Modifier.clickable",
			"longpress":   "Modifier.combinedClickable(onLongClick)",
			"doubleclick": "Modifier.combinedClickable(onDoubleClick)",
			"focus":       "Modifier.onFocusChanged",
			"blur":        "Modifier.onFocusEvent",
			"scroll":      "Modifier.scrollable",
			"drag":        "Modifier.draggable",
			"keydown":     "Modifier.onKeyEvent",
			"keyup":       "Modifier.onPreviewKeyEvent",
			"hover":       "Modifier.hoverable",
			"change":      "onValueChange",
		}),
		EventStyle: adapter.EventStyle{
			Fallback: func(stem string) string { return "Modifier." + adapter.CamelCase(stem) },
		},
		Layouts: adapter.NewTable(map[string]string{
			"row":     "Row",
			"column":  "Column",
			"stack":   "Box",
			"box":     "Box",
			"overlay": "Box",
			"grid":    "LazyVerticalGrid",
			"list":    "LazyColumn",
			"flow":    "FlowRow",
		}),
		LayoutMarker: "__container",
		Rules: map[core.KeyClass]adapter.Rule{
			core.ClassAccessibility: adapter.Accessibility("semantics:", nil),
			core.ClassStyleClass:    adapter.Rename("__themeClass"),
			core.ClassInlineStyle:   adapter.Rename("__modifierChain"),
		},
	}
}
