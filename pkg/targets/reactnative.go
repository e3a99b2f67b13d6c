package targets

import (
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/classify"
	"github.com/Itshalffull/propbind/pkg/core"
)

// ReactNativeSpec describes React Native core component props.
func ReactNativeSpec() adapter.Spec {
	return adapter.Spec{
		Name:        ReactNative,
		Description: "React Native press handlers and accessibility props",
		Aliases:     []string{"rn", "react-native"},
		Events: adapter.NewTable(map[string]string{
			"click":       "onPress",
			"doubleclick": "onDoublePress",
			"longpress":   "onLongPress",
			"change":      "onChangeText",
			"focus":       "onFocus",
			"blur":        "onBlur",
			"submit":      "onSubmitEditing",
			"scroll":      "onScroll",
			"layout":      "onLayout",
			"keydown":     "onKeyPress",
		}),
		EventStyle: adapter.EventStyle{Fallback: upperOn},
		Rules: map[core.KeyClass]adapter.Rule{
			core.ClassAccessibility: adapter.Accessibility("accessibility", adapter.PascalCase),
			core.ClassStyleClass:    adapter.Rename("__className"),
			core.ClassInlineStyle:   adapter.Rename(classify.StyleKey),
			core.ClassLifecycleRef:  adapter.Wrap(classify.RefKey, adapter.RefDescriptor),
		},
	}
}
